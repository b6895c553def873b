package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"regcheck/pkg/requestcontext"
)

func TestMiddlewareWithClock(t *testing.T) {
	fixed := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	var got time.Time
	h := MiddlewareWithClock(func() time.Time { return fixed })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Now(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, got.Equal(fixed))
}
