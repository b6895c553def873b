// Package handler exposes the register check HTTP surface used by the
// matching service and by administrators.
package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/httputil"
	"regcheck/pkg/platform/middleware/auth"
	pstrings "regcheck/pkg/platform/strings"
	"regcheck/pkg/requestcontext"
)

const maxResultBytes = 1 << 20

// Service is the slice of the register check service the handlers use.
type Service interface {
	PendingFor(ctx context.Context, credential string, requested []id.JurisdictionCode) ([]*models.RegisterCheck, error)
	SubmitResult(ctx context.Context, credential string, result *models.Result, payload []byte) (models.Status, error)
	AdminPending(ctx context.Context, authority id.AuthorityID) ([]models.PendingSummary, error)
	PageSize() int
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the credential-protected matching service routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCredential(h.logger))
		r.Get("/registerchecks", h.handleListPending)
		r.Post("/registerchecks/{correlationId}", h.handleSubmitResult)
	})
}

// RegisterAdmin mounts the admin routes. They carry no credential check and
// rely on network-level isolation.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/pending-checks/{authorityId}", h.handleAdminPending)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	var requested []id.JurisdictionCode
	for _, raw := range pstrings.SplitCSV(r.URL.Query().Get("jurisdictions")) {
		code, err := id.ParseJurisdictionCode(raw)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid jurisdictions parameter",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid jurisdiction code "+raw))
			return
		}
		requested = append(requested, code)
	}

	checks, err := h.service.PendingFor(ctx, requestcontext.Credential(ctx), requested)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list pending register checks")
		return
	}

	h.logger.InfoContext(ctx, "pending register checks served",
		"request_id", requestID,
		"returned", len(checks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toPendingResponse(checks, h.service.PageSize()))
}

func (h *Handler) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	correlationID, err := id.ParseCorrelationID(chi.URLParam(r, "correlationId"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "correlationId must be a UUID"))
		return
	}

	// keep the exact bytes; they are stored as the raw result payload
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxResultBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body too large or unreadable"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(payload))

	req, ok := httputil.DecodeAndPrepare[SubmitResultRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status, err := h.service.SubmitResult(ctx, requestcontext.Credential(ctx), req.toResult(correlationID), payload)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to process register check result")
		return
	}

	h.logger.InfoContext(ctx, "register check result accepted",
		"request_id", requestID,
		"correlation_id", correlationID.String(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleAdminPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authority, err := id.ParseAuthorityID(chi.URLParam(r, "authorityId"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid authority id"))
		return
	}
	summaries, err := h.service.AdminPending(ctx, authority)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list pending register checks")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"code", dErrors.CodeOf(err),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
