// Package request provides the middleware that stamps every HTTP request with a correlation id.
package request

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"regcheck/pkg/requestcontext"
)

// HeaderCorrelationID carries the correlation id in and out of the service.
const HeaderCorrelationID = "X-Correlation-Id"

const maxCorrelationIDLength = 128

// RequestID reuses an inbound correlation id when present and sane, otherwise
// generates one. The id is echoed on the response and stored in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
		if reqID == "" || len(reqID) > maxCorrelationIDLength {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
