// Package jurisdiction resolves the jurisdiction codes an authority administers.
package jurisdiction

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

// Client calls the external office directory:
//
//	GET {base}/authorities/{authorityId}/jurisdictions -> {"jurisdictionCodes": ["..."]}
//
// Answers are not cached.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type jurisdictionsResponse struct {
	JurisdictionCodes []string `json:"jurisdictionCodes"`
}

// JurisdictionsFor returns the distinct, upper-cased codes owned by authority.
func (c *Client) JurisdictionsFor(ctx context.Context, authority id.AuthorityID) ([]id.JurisdictionCode, error) {
	var body jurisdictionsResponse
	endpoint := c.baseURL + "/authorities/" + url.PathEscape(authority.String()) + "/jurisdictions"
	if err := httputil.GetJSON(ctx, c.http, endpoint, &body); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "authority "+authority.String()+" not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "jurisdiction directory unavailable")
	}

	seen := make(map[id.JurisdictionCode]struct{}, len(body.JurisdictionCodes))
	codes := make([]id.JurisdictionCode, 0, len(body.JurisdictionCodes))
	for _, raw := range body.JurisdictionCodes {
		code, err := id.ParseJurisdictionCode(raw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "jurisdiction directory returned an invalid code")
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}
