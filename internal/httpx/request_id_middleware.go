package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware stamps every outgoing request with an id, reusing
// one already placed on the context so retries of the same call share it.
func RequestIDMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			requestID := RequestIDFromContext(req.Context())
			if requestID == "" {
				requestID = uuid.New().String()
			}

			req = req.Clone(ContextWithRequestID(req.Context(), requestID))
			req.Header.Set(requestIDHeader, requestID)
			return next.RoundTrip(req)
		})
	}
}
