// Package repository defines sentinel error values that are reused
// across multiple repositories.  These let handlers distinguish failure
// scenarios without inspecting SQL errors directly.
package repository

import "errors"

// ErrEmailAlreadyAdmin is returned when pilot approval would attach a
// pilot back-reference to an email that already belongs to an ADMIN
// identity.  Handlers translate this into an HTTP 409 response.
var ErrEmailAlreadyAdmin = errors.New("email already belongs to an admin identity")
