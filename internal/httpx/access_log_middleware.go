package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// AccessLogMiddleware logs one line per round trip. Place it inside
// RequestIDMiddleware so the id header is already set.
func AccessLogMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"request_id", req.Header.Get(requestIDHeader),
			}
			if err != nil {
				logger.Warn("api call failed", append(attrs, "error", err)...)
				return resp, err
			}

			logger.Info("api call", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
