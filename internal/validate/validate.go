// Package validate maps untrusted key-value payloads to typed,
// bounds-checked records.  Every validator is pure: no I/O, first
// violation returns immediately with a human-readable message, and the
// caller gets either a complete valid record or a rejection.
package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/hiredronepilots/api/internal/apperr"
)

// maxFieldLen caps single-line string fields; maxTextLen caps free-text
// fields such as the enquiry brief.
const (
	maxFieldLen = 255
	maxTextLen  = 5000
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// requireField trims a value and rejects empty or over-long input.
func requireField(label, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation(label + " is required")
	}
	if len(v) > max {
		return "", apperr.Validation(label + " is too long")
	}
	return v, nil
}

// optionalField trims and clamps a value without requiring it.
func optionalField(v string, max int) string {
	v = strings.TrimSpace(v)
	if len(v) > max {
		v = v[:max]
	}
	return v
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", apperr.Validation("Email is required")
	}
	if len(v) > maxFieldLen || !emailPattern.MatchString(v) {
		return "", apperr.Validation("Email is not a valid address")
	}
	return v, nil
}

// NormalizeURL validates a URL, prepending https:// when the scheme is
// missing.  Unparseable values and values without a host are rejected.
func NormalizeURL(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return "", apperr.Validation("Website URL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.Validation("Website URL must use http or https")
	}
	return u.String(), nil
}

// ukPostcode is a permissive outward+inward shape check; full PAF
// validation is out of scope for an enquiry form.
var ukPostcode = regexp.MustCompile(`^[A-Z]{1,2}[0-9][0-9A-Z]?\s?[0-9][A-Z]{2}$`)

// NormalizePostcode uppercases a UK postcode and validates its shape.
func NormalizePostcode(v string) (string, error) {
	v = strings.ToUpper(strings.Join(strings.Fields(v), " "))
	if v == "" {
		return "", apperr.Validation("Postcode is required")
	}
	if !ukPostcode.MatchString(v) {
		return "", apperr.Validation("Postcode is not a valid UK postcode")
	}
	return v, nil
}
