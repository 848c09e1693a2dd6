package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastkar/rugshop/internal/apperr"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOkEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ok(rec, http.StatusCreated, map[string]any{"message": "done"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
}

func TestFailMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", apperr.Validation("Quantity must be at least 1"), http.StatusBadRequest, "Quantity must be at least 1"},
		{"conflict", apperr.Conflict("Insufficient stock"), http.StatusBadRequest, "Insufficient stock"},
		{"not found", apperr.NotFound("Order not found"), http.StatusNotFound, "Order not found"},
		{"internal hides detail", apperr.Internal("Failed to create order", errors.New("pq: deadlock")), http.StatusInternalServerError, "fallback"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fail(rec, tt.err, "fallback")
			assert.Equal(t, tt.wantCode, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}
