// Package testutil provides common test utilities for handler and integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest builds a request whose body is body marshaled to JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequestWithBody builds a request with a raw string body.
func NewRequestWithBody(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest serves req through handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response: %s", rr.Body.String())
	return &result
}

// AssertStatusAndError checks the status and the "error" code of the envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code, "unexpected status code")
	body := UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, expectedCode, (*body)["error"], "unexpected error code")
}
