package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hiredronepilots/api/internal/config"
	"github.com/hiredronepilots/api/internal/middleware"
)

func TestSessionCookie(t *testing.T) {
	expires := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	ck := sessionCookie(config.Config{Env: "prod"}, "rawtoken", expires)

	assert.Equal(t, middleware.SessionCookieName, ck.Name)
	assert.Equal(t, "rawtoken", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, expires, ck.Expires)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure, "Secure outside dev")
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
}

func TestSessionCookieDevRelaxesSecure(t *testing.T) {
	ck := sessionCookie(config.Config{Env: "dev"}, "rawtoken", time.Now())
	assert.False(t, ck.Secure, "local HTTP must be able to set the cookie")
	assert.True(t, ck.HttpOnly, "HttpOnly stays on in every environment")
}

func TestExpiredSessionCookie(t *testing.T) {
	ck := expiredSessionCookie(config.Config{Env: "prod"})
	assert.Equal(t, middleware.SessionCookieName, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge, "negative MaxAge deletes the cookie")
	assert.True(t, ck.HttpOnly)
}
