package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalSecret(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		configured     string
		provided       string
		expectedStatus int
	}{
		{"valid secret", "s3cret", "s3cret", http.StatusNoContent},
		{"wrong secret", "s3cret", "nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured secret disables endpoint", "", "anything", http.StatusServiceUnavailable},
		{"unconfigured secret with empty header", "", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/run", nil)
			if tt.provided != "" {
				req.Header.Set("X-Internal-Secret", tt.provided)
			}
			rec := httptest.NewRecorder()

			InternalSecret(tt.configured)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
