package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/fieldvolt/workforce-backend-go/internal/handler/http/response"
)

const internalSecretHeader = "X-Internal-Secret"

// InternalSecret gates internal endpoints (the manual reconciliation trigger)
// behind a shared secret. An unconfigured secret disables the endpoint
// entirely rather than letting requests through.
func InternalSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.ServiceUnavailable(w, "Internal endpoint is not configured")
				return
			}

			provided := r.Header.Get(internalSecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid internal secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
