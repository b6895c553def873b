// Package requesttime captures one "now" per request so every date comparison
// made while handling it (resolver windows, audit timestamps) agrees.
package requesttime

import (
	"net/http"
	"time"

	"regcheck/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock is Middleware with an injectable clock.
func MiddlewareWithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
