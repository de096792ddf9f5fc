package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viw-carta/backend/pkg/apperr"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Body) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	// Outside a full engine run nothing flushes a pending status set via
	// c.Status, so force it the way gin does at end of request.
	c.Writer.WriteHeaderNow()
	var body Body
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &body)
	}
	return w, body
}

func TestErrorMapsEveryKind(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", apperr.Unauthorized("no session"), http.StatusUnauthorized, ""},
		{"forbidden role", apperr.ForbiddenRole("admin required"), http.StatusForbidden, apperr.ReasonRole},
		{"forbidden plan", apperr.ForbiddenPlan("premium required"), http.StatusForbidden, apperr.ReasonPlan},
		{"not found", apperr.NotFound("meal not found"), http.StatusNotFound, ""},
		{"conflict", apperr.Conflict("slug taken"), http.StatusConflict, ""},
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, ""},
		{"internal", apperr.Internal("boom", errors.New("db down")), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := record(func(c *gin.Context) { Error(c, tc.err) })
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	_, body := record(func(c *gin.Context) {
		Error(c, apperr.Internal("failed to load meal", errors.New("dial tcp: connection refused")))
	})
	assert.Equal(t, "internal error", body.Error)
	assert.NotContains(t, body.Error, "dial tcp")
}

func TestErrorWrapsPlainErrors(t *testing.T) {
	w, _ := record(func(c *gin.Context) { Error(c, errors.New("surprise")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) { OK(c, gin.H{"hello": "world"}) })
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Empty(t, body.Error)

	w, body = record(func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)

	w, _ = record(NoContent)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
