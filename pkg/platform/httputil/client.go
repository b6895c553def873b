package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"regcheck/pkg/platform/sentinel"
)

// GetJSON fetches url and decodes a 2xx body into out. A 404 is
// sentinel.ErrNotFound; transport failures, timeouts, other statuses and
// undecodable bodies are sentinel.ErrUnavailable. There is no retry.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return sentinel.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
