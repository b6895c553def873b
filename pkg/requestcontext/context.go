// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Values are set once at a boundary (HTTP middleware or the queue consumer)
// and read by services and stores. Keeping this package free of net/http
// lets the message consumers use the same accessors.
//
// Usage in services (read values):
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage at boundaries (set values):
//
//	ctx = requestcontext.WithRequestID(ctx, correlationID)
//	ctx = requestcontext.WithCredential(ctx, serial)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	credentialKey  struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyCredential  = credentialKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Correlation
// -----------------------------------------------------------------------------

// RequestID retrieves the correlation id used to tie log lines together.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Caller credential
// -----------------------------------------------------------------------------

// Credential retrieves the caller credential (client certificate serial)
// forwarded by the TLS-terminating layer.
func Credential(ctx context.Context) string {
	if c, ok := ctx.Value(ContextKeyCredential).(string); ok {
		return c
	}
	return ""
}

// WithCredential injects the caller credential into the context.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, ContextKeyCredential, credential)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, scheduled jobs, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Scheduled sweeps that need one consistent "now" for a whole run
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
