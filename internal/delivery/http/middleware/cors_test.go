package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	allowed := []string{"https://console.example.org/", " http://localhost:5173 "}

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantMethods bool
		nextCalled  bool
	}{
		{"preflight from allowed origin", http.MethodOptions, "https://console.example.org", http.StatusNoContent, "https://console.example.org", true, false},
		{"preflight from unknown origin", http.MethodOptions, "https://evil.example", http.StatusNoContent, "", false, false},
		{"get from allowed origin with trimmed config", http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173", false, true},
		{"get from unknown origin", http.MethodGet, "https://evil.example", http.StatusOK, "", false, true},
		{"no origin header", http.MethodGet, "", http.StatusOK, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				_, _ = w.Write([]byte("ok"))
			})
			req := httptest.NewRequest(tt.method, "http://test/events/me", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			CORS(allowed, next).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.nextCalled, called)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, rr.Header().Get("Access-Control-Allow-Methods") != "")
			if tt.wantOrigin != "" && tt.method != http.MethodOptions {
				assert.Equal(t, corsExposeHeaders, rr.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}
