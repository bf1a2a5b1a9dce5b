package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredronepilots/api/internal/apperr"
)

func testContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPathID(t *testing.T) {
	c, _ := testContext(t)
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		c.SetParamValues(bad)
		_, err := pathID(c, "id")
		assert.Error(t, err, "param %q", bad)
	}
}

func TestRespondErrTypedStatus(t *testing.T) {
	c, rec := testContext(t)
	require.NoError(t, respondErr(c, apperr.Gone("invitation has expired")))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.JSONEq(t, `{"error":"invitation has expired"}`, rec.Body.String())
}

func TestRespondErrUnknownIsOpaque500(t *testing.T) {
	c, rec := testContext(t)
	require.NoError(t, respondErr(c, errors.New("dial tcp: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String(),
		"driver errors never reach the caller verbatim")
}
