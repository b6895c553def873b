package httputil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "regcheck/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("taxonomy maps to distinct statuses", func(t *testing.T) {
		cases := map[dErrors.Code]int{
			dErrors.CodeValidation: http.StatusBadRequest,
			dErrors.CodeForbidden:  http.StatusForbidden,
			dErrors.CodeNotFound:   http.StatusNotFound,
			dErrors.CodeConflict:   http.StatusConflict,
			dErrors.CodeUpstream:   http.StatusInternalServerError,
		}
		for code, status := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(code, "x"))
			if w.Code != status {
				t.Fatalf("code %s: expected %d, got %d", code, status, w.Code)
			}
		}
	})
}

type sampleRequest struct {
	Name string `json:"name"`
}

func (r *sampleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("valid body is normalized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  x "}`))
		w := httptest.NewRecorder()
		req, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req")
		if !ok {
			t.Fatalf("expected ok, got status %d", w.Code)
		}
		if req.Name != "x" {
			t.Fatalf("expected trimmed name, got %q", req.Name)
		}
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		w := httptest.NewRecorder()
		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req")
		if ok || w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("validation failure uses validation code", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
		w := httptest.NewRecorder()
		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req")
		if ok || w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
