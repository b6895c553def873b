package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/sentinel"
	"regcheck/pkg/requestcontext"
)

// Ingest creates a PENDING check for an initiate event and, when replication
// is enabled, forwards the event with the new correlation id.
//
// A redelivered event finds the check created the first time and forwards
// it again. A forwarding failure never removes the persisted check; it is
// returned so the consumer leaves the message uncommitted.
func (s *Service) Ingest(ctx context.Context, evt models.InitiateCheck) (check *models.RegisterCheck, err error) {
	ctx, span := s.tracer.Start(ctx, "registercheck.Ingest")
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	fresh, err := models.NewPendingCheck(evt, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("source_type", string(fresh.SourceType)),
		attribute.String("jurisdiction_code", string(fresh.JurisdictionCode)),
	)

	created := false
	err = s.runner.ReadWrite(ctx, func(ctx context.Context) error {
		existing, findErr := s.store.FindBySourceCorrelationID(ctx, fresh.SourceType, fresh.SourceCorrelationID)
		switch {
		case findErr == nil:
			check = existing
			return nil
		case !errors.Is(findErr, sentinel.ErrNotFound):
			return findErr
		}
		if createErr := s.store.Create(ctx, fresh); createErr != nil {
			return createErr
		}
		check = fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, storeError(err, "create register check")
	}

	if created {
		s.metrics.IncChecksCreated(string(check.SourceType))
		s.logger.InfoContext(ctx, "register check created",
			"request_id", requestcontext.RequestID(ctx),
			"correlation_id", check.CorrelationID.String(),
			"source_type", check.SourceType,
			"jurisdiction_code", check.JurisdictionCode,
		)
	} else {
		s.logger.InfoContext(ctx, "initiate event already ingested",
			"request_id", requestcontext.RequestID(ctx),
			"correlation_id", check.CorrelationID.String(),
			"source_correlation_id", check.SourceCorrelationID,
		)
	}

	if !s.replication {
		return check, nil
	}
	raw := evt.Raw
	if len(raw) == 0 {
		if raw, err = json.Marshal(evt); err != nil {
			return check, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode initiate event")
		}
	}
	if err = s.publisher.Replicate(ctx, raw, check.CorrelationID); err != nil {
		s.logger.ErrorContext(ctx, "failed to forward initiate event",
			"request_id", requestcontext.RequestID(ctx),
			"correlation_id", check.CorrelationID.String(),
			"error", err,
		)
		return check, err
	}
	return check, nil
}

// Remove deletes every check of a source record together with its stored
// result payloads. Removing nothing is not an error.
func (s *Service) Remove(ctx context.Context, evt models.RemoveCheckData) (int, error) {
	st, err := models.ParseSourceType(string(evt.SourceType))
	if err != nil {
		return 0, err
	}
	ref := strings.TrimSpace(evt.SourceReference)
	if ref == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "sourceReference is required")
	}
	code, err := id.ParseJurisdictionCode(string(evt.JurisdictionCode))
	if err != nil {
		return 0, err
	}

	var deleted int
	err = s.runner.ReadWrite(ctx, func(ctx context.Context) error {
		var delErr error
		deleted, delErr = s.store.DeleteBySourceReference(ctx, st, ref, code)
		return delErr
	})
	if err != nil {
		return 0, storeError(err, "remove register checks")
	}
	s.metrics.AddChecksRemoved(deleted)
	s.logger.InfoContext(ctx, "register check data removed",
		"request_id", requestcontext.RequestID(ctx),
		"source_type", st,
		"source_reference", ref,
		"jurisdiction_code", code,
		"deleted", deleted,
	)

	if !s.replication {
		return deleted, nil
	}
	raw := evt.Raw
	if len(raw) == 0 {
		if raw, err = json.Marshal(evt); err != nil {
			return deleted, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode remove event")
		}
	}
	if err := s.publisher.ForwardRemoval(ctx, raw, ref); err != nil {
		s.logger.ErrorContext(ctx, "failed to forward remove event",
			"request_id", requestcontext.RequestID(ctx),
			"source_reference", ref,
			"error", err,
		)
		return deleted, err
	}
	return deleted, nil
}
