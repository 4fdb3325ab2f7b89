package httpx

import "net/http"

// TokenSource yields the bearer credential for outgoing calls. Decoupled
// from the auth package so the transport stays a leaf.
type TokenSource interface {
	Token() (string, bool)
}

// AuthMiddleware attaches the bearer token when one is available.
// Requests go out unauthenticated otherwise; the server answers 401 and
// the gateway maps it.
func AuthMiddleware(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if token, ok := tokens.Token(); ok && token != "" {
				req = req.Clone(req.Context())
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(req)
		})
	}
}
