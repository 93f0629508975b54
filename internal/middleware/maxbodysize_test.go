package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-offers/internal/middleware"
)

// bodyReadingHandler reads the whole body like a JSON-decoding handler would
// and answers 413 when the read fails.
var bodyReadingHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestMaxBodySizeHandler(t *testing.T) {
	tests := []struct {
		name          string
		limit         int64
		bodyLen       int
		contentLength int64
		want          int
	}{
		{"small body passes", 100, 50, 50, http.StatusOK},
		{"exact limit passes", 100, 100, 100, http.StatusOK},
		{"content length over limit", 100, 200, 200, http.StatusRequestEntityTooLarge},
		{"streamed body over limit", 100, 200, -1, http.StatusRequestEntityTooLarge},
		{"zero limit disables", 0, 5000, 5000, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewMaxBodySizeHandler(tc.limit)(bodyReadingHandler)

			req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(strings.Repeat("x", tc.bodyLen)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMaxBodySizeHandler_RejectsBeforeHandlerRuns(t *testing.T) {
	called := false
	h := middleware.NewMaxBodySizeHandler(10)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(strings.Repeat("x", 20)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"error":{"code":"request_too_large","message":"request body too large"}}`, rec.Body.String())
}
