package httputil

import (
	"context"
)

// requestIDKey is a context key type for storing request identifiers.
type requestIDKey struct{}

// ContextWithRequestID stores the request identifier in the context.
// This is typically called by the HTTP middleware so lower layers can stamp
// decision records with the originating request.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext retrieves the request identifier from the context.
// Returns an empty string when no request identifier was set, such as for
// decisions made from CLI commands.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
