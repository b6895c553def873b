// Package identity resolves a caller credential to the authority it belongs to.
package identity

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/httputil"
	"regcheck/pkg/platform/sentinel"
)

// DirectoryClient calls the external identity directory:
//
//	GET {base}/identities/{credential} -> {"authorityId": "..."}
type DirectoryClient struct {
	baseURL string
	http    *http.Client
}

func NewDirectoryClient(baseURL string, timeout time.Duration) *DirectoryClient {
	return &DirectoryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type identityResponse struct {
	AuthorityID string `json:"authorityId"`
}

// Lookup returns the authority mapped to credential. It fails with not_found
// when the directory has no mapping and upstream_error otherwise.
func (c *DirectoryClient) Lookup(ctx context.Context, credential string) (id.AuthorityID, error) {
	var body identityResponse
	err := httputil.GetJSON(ctx, c.http, c.baseURL+"/identities/"+url.PathEscape(credential), &body)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Wrap(err, dErrors.CodeNotFound, "no authority for credential")
		}
		return "", dErrors.Wrap(err, dErrors.CodeUpstream, "identity directory unavailable")
	}
	authority, err := id.ParseAuthorityID(body.AuthorityID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUpstream, "identity directory returned an invalid authority id")
	}
	return authority, nil
}
