// Package httputil holds the JSON response and request helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "regcheck/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Validatable is implemented by request bodies that check and normalize themselves.
type Validatable interface {
	Validate() error
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err's code to a status and writes the error envelope.
// Descriptions of internal and upstream failures are never sent to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeUpstream {
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, StatusFor(code), body)
}

// StatusFor translates a domain error code into an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method.
// On failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}
	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}
