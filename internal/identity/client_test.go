package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
)

func TestDirectoryClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/identities/serial-1":
			_, _ = w.Write([]byte(`{"authorityId":"auth-1"}`))
		case "/identities/serial-bad":
			_, _ = w.Write([]byte(`{"authorityId":""}`))
		case "/identities/serial-down":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewDirectoryClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	t.Run("maps credential to authority", func(t *testing.T) {
		got, err := client.Lookup(ctx, "serial-1")
		require.NoError(t, err)
		assert.Equal(t, id.AuthorityID("auth-1"), got)
	})

	t.Run("unknown credential is not found", func(t *testing.T) {
		_, err := client.Lookup(ctx, "serial-unknown")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("directory failure is upstream", func(t *testing.T) {
		_, err := client.Lookup(ctx, "serial-down")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	})

	t.Run("empty authority is upstream", func(t *testing.T) {
		_, err := client.Lookup(ctx, "serial-bad")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	})
}
