package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

func respond(t *testing.T, r interface{ RespondError(*gin.Context, error) }, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	r.RespondError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	r := NewChainedResponder(Internal("Error"), func(err error) (Failure, bool) {
		if errors.Is(err, errMissing) {
			return NotFound("Order not found"), true
		}
		return Failure{}, false
	})

	code, body := respond(t, r, fmt.Errorf("lookup: %w", errMissing))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["message"])
	assert.NotContains(t, body, "error")
}

func TestChainedResponder_Fallback(t *testing.T) {
	r := NewChainedResponder(Internal("Error fetching orders"))

	code, body := respond(t, r, errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error fetching orders", body["error"])
	assert.Equal(t, "disk full", body["message"])
}

func TestChainedResponder_FallbackWithMessageFillsError(t *testing.T) {
	r := NewChainedResponder(Failure{Status: http.StatusInternalServerError, Message: "Error placing order"})

	code, body := respond(t, r, errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error placing order", body["message"])
	assert.Equal(t, "disk full", body["error"])
}

func TestResponder_PassesFailuresThrough(t *testing.T) {
	code, body := respond(t, DefaultResponder, fmt.Errorf("wrapped: %w", BadRequest("Missing fields")))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing fields", body["message"])
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromError(fmt.Errorf("x: %w", BadRequest("y"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(errors.New("plain")))
}
