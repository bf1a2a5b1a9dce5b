package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	l := NewLimiter(5, 15*time.Minute)
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("magic_link", "jane@example.com"), "request %d", i+1)
	}
	assert.False(t, l.Allow("magic_link", "jane@example.com"), "sixth request in the window")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, 15*time.Minute)
	assert.True(t, l.Allow("magic_link", "a@example.com"))
	assert.False(t, l.Allow("magic_link", "a@example.com"))
	assert.True(t, l.Allow("magic_link", "b@example.com"), "other identifier unaffected")
	assert.True(t, l.Allow("other_scope", "a@example.com"), "other scope unaffected")
}

func TestLimiterWindowSlides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, 15*time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("magic_link", "jane@example.com"))
	assert.True(t, l.Allow("magic_link", "jane@example.com"))
	assert.False(t, l.Allow("magic_link", "jane@example.com"))

	// Just before the first hit leaves the window: still throttled.
	now = now.Add(14 * time.Minute)
	assert.False(t, l.Allow("magic_link", "jane@example.com"))

	// Once the first two hits age out, capacity frees up.
	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("magic_link", "jane@example.com"))
}
