package http

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCORS(t *testing.T) {
	var calls int32

	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	})

	wrapped := WithCORS(stub)

	testCases := []struct {
		name           string
		method         string
		expectedStatus int
		expectedCalls  int32
	}{
		{
			name:           "preflight OPTIONS returns 200 and does not call next",
			method:         http.MethodOptions,
			expectedStatus: http.StatusOK,
			expectedCalls:  0,
		},
		{
			name:           "regular POST passes through to next handler",
			method:         http.MethodPost,
			expectedStatus: http.StatusNoContent,
			expectedCalls:  1,
		},
	}

	for _, tc := range testCases {
		atomic.StoreInt32(&calls, 0)

		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", nil)
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			res := rec.Result()

			assert.EqualValues(t, tc.expectedStatus, res.StatusCode)

			assert.EqualValues(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
			assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "POST")
			assert.Contains(t, res.Header.Get("Access-Control-Allow-Headers"), RequestIDHeader)
			assert.Equal(t, RequestIDHeader, res.Header.Get("Access-Control-Expose-Headers"))

			assert.EqualValues(t, tc.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestWithCORS_ReflectsOrigin(t *testing.T) {
	wrapped := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Vary"), "Origin")
	assert.Nil(t, WithCORS(nil))
}
