package model

import "time"

// AuditEvent is one row of the append-only `audit_events` log.  Events
// are written inside the same transaction as the state change they
// describe, so the log never records a transition that rolled back.
//
// Fields:
//  ID         – UUID assigned at insert time.
//  ActorID    – identity that caused the event; nil for anonymous actions.
//  EntityType – table-ish name of the affected entity (e.g. "enquiry").
//  EntityID   – primary key of the affected entity.
//  Action     – short verb describing what happened.
//  Detail     – free-form JSON payload with action specifics.
//  CreatedAt  – insert timestamp.
type AuditEvent struct {
	ID         string    // audit_events.id (uuid)
	ActorID    *uint64   // audit_events.actor_id (nullable)
	EntityType string    // audit_events.entity_type
	EntityID   uint64    // audit_events.entity_id
	Action     string    // audit_events.action
	Detail     string    // audit_events.detail (json)
	CreatedAt  time.Time // audit_events.created_at
}
