package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		TutorID int64 `json:"tutorId"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tutorId": 7}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, int64(7), dst.TutorID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tutorId": 7, "extra": 1}`))
	assert.Error(t, DecodeJSON(req, &dst), "unknown fields are rejected")

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, DecodeJSON(req, &dst), ErrEmptyBody)
}

func TestRespondHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"занято"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	RespondServiceUnavailable(rec)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	RespondJSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSetCommandID(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCommandID(rec, uuid.Nil)
	assert.Empty(t, rec.Header().Get(HeaderCommandID))

	id := uuid.New()
	SetCommandID(rec, id)
	assert.Equal(t, id.String(), rec.Header().Get(HeaderCommandID))
}
