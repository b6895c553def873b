// Package auth extracts the caller credential placed on the request by the
// TLS-terminating proxy. Certificate verification happens upstream; this
// layer only requires that a serial was forwarded.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/httputil"
	"regcheck/pkg/requestcontext"
)

// HeaderClientCertificateSerial is set by the proxy from the verified client certificate.
const HeaderClientCertificateSerial = "X-Client-Certificate-Serial"

// RequireCredential rejects requests without a forwarded certificate serial
// and stores the serial in the context for the identity cache.
func RequireCredential(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			serial := strings.TrimSpace(r.Header.Get(HeaderClientCertificateSerial))
			if serial == "" {
				logger.WarnContext(ctx, "unauthorized access - missing client certificate serial",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing client certificate"))
				return
			}
			ctx = requestcontext.WithCredential(ctx, serial)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
