package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"foo":"bar"}`, rec.Body.String())
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusNotFound, "no_mock_response", "no mock response found for GetUser")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_mock_response", body.Error)
	assert.Equal(t, "no mock response found for GetUser", body.Message)
}

func TestWriteBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     http.Header
		body       []byte
		wantLength string
	}{
		{"sets content length", http.Header{"X-Id": {"1"}}, []byte("hello"), "5"},
		{"keeps explicit length", http.Header{"Content-Length": {"99"}}, []byte("hello"), "99"},
		{"empty body", nil, nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()

			WriteBody(rec, http.StatusAccepted, tt.header, tt.body)

			assert.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, tt.wantLength, rec.Header().Get("Content-Length"))
			assert.Equal(t, string(tt.body), rec.Body.String())
			for k := range tt.header {
				if k != "Content-Length" {
					assert.Equal(t, tt.header.Get(k), rec.Header().Get(k))
				}
			}
		})
	}
}
