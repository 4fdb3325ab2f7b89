package httpx

import "context"

type contextKey string

const requestIDKey contextKey = "requestID"

// ContextWithRequestID tags an outgoing call so logs of the fetch and of
// the view that issued it correlate.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
