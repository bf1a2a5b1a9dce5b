package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth(), http.StatusUnauthorized},
		{NotFound("missing"), http.StatusNotFound},
		{Gone("expired"), http.StatusGone},
		{New(KindConflict, "taken"), http.StatusConflict},
		{New(KindInternal, "boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Message)
	}
}

func TestErrorsAsUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("sending invites: %w", NotFound("enquiry not found"))
	var ae *Error
	assert.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, http.StatusNotFound, ae.Status())
	assert.Equal(t, "enquiry not found", ae.Message)
}

func TestAuthMessageIsGeneric(t *testing.T) {
	assert.Equal(t, "unauthorized", Auth().Error())
}
