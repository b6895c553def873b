package service

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"regcheck/internal/registercheck/matching"
	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/requestcontext"
)

// SubmitResult validates a match result, resolves the outcome and applies it
// to the PENDING check exactly once.
//
// The versioned save, the raw payload and the publish run in one write
// transaction; a failed publish rolls the transition back so the caller can
// resubmit. A publish that succeeds before a failed commit may repeat on
// resubmission, which consumers absorb by keying on sourceCorrelationId.
func (s *Service) SubmitResult(ctx context.Context, credential string, result *models.Result, payload []byte) (status models.Status, err error) {
	ctx, span := s.tracer.Start(ctx, "registercheck.SubmitResult")
	span.SetAttributes(attribute.String("correlation_id", result.CorrelationID.String()))
	defer func() {
		if err != nil {
			s.metrics.IncResultRejected(string(dErrors.CodeOf(err)))
		}
		endSpan(span, err)
	}()

	authority, err := s.authorities.ResolveAuthority(ctx, credential)
	if err != nil {
		return "", err
	}
	check, err := s.validator.Validate(ctx, result.CorrelationID, authority, result)
	if err != nil {
		s.logger.InfoContext(ctx, "register check result rejected",
			"request_id", requestcontext.RequestID(ctx),
			"correlation_id", result.CorrelationID.String(),
			"authority_id", authority,
			"code", dErrors.CodeOf(err),
			"reason", err.Error(),
		)
		return "", err
	}

	now := requestcontext.Now(ctx)
	status = matching.Resolve(result, check.PersonalDetail, id.DateOf(now))
	span.SetAttributes(attribute.String("status", string(status)))

	if len(payload) == 0 {
		if payload, err = json.Marshal(resultPayload(result)); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode result payload")
		}
	}

	err = s.runner.ReadWrite(ctx, func(ctx context.Context) error {
		if err := check.ApplyResult(status, result.MatchCount, now); err != nil {
			return err
		}
		if err := s.store.Save(ctx, check); err != nil {
			return err
		}
		if err := s.store.SaveResultData(ctx, check.CorrelationID, payload, now); err != nil {
			return err
		}
		return s.publisher.PublishResult(ctx, finalized(check, result, status))
	})
	if err != nil {
		return "", storeError(err, "record register check result")
	}

	s.metrics.IncResultProcessed(string(status))
	s.logger.InfoContext(ctx, "register check result applied",
		"request_id", requestcontext.RequestID(ctx),
		"correlation_id", check.CorrelationID.String(),
		"jurisdiction_code", check.JurisdictionCode,
		"status", status,
		"match_count", result.MatchCount,
	)
	return status, nil
}

func finalized(check *models.RegisterCheck, result *models.Result, status models.Status) models.FinalizedResult {
	matches := result.Matches
	if matches == nil {
		matches = []models.Match{}
	}
	return models.FinalizedResult{
		SourceType:                   check.SourceType,
		SourceReference:              check.SourceReference,
		SourceCorrelationID:          check.SourceCorrelationID,
		Result:                       status,
		Matches:                      matches,
		HistoricalSearchEarliestDate: result.HistoricalSearchEarliestDate,
	}
}

type storedResult struct {
	RequestID                    id.CorrelationID    `json:"requestId"`
	JurisdictionCode             id.JurisdictionCode `json:"jurisdictionCode"`
	CreatedAt                    time.Time           `json:"createdAt"`
	MatchCount                   int                 `json:"matchCount"`
	Matches                      []models.Match      `json:"matches"`
	HistoricalSearchEarliestDate *time.Time          `json:"historicalSearchEarliestDate,omitempty"`
}

func resultPayload(r *models.Result) storedResult {
	return storedResult{
		RequestID:                    r.RequestID,
		JurisdictionCode:             r.JurisdictionCode,
		CreatedAt:                    r.CreatedAt,
		MatchCount:                   r.MatchCount,
		Matches:                      r.Matches,
		HistoricalSearchEarliestDate: r.HistoricalSearchEarliestDate,
	}
}

// Archive retires match outcomes recorded more than retention ago.
func (s *Service) Archive(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "archive retention must be positive")
	}
	now := requestcontext.Now(ctx)
	var archived int
	err := s.runner.ReadWrite(ctx, func(ctx context.Context) error {
		var archErr error
		archived, archErr = s.store.ArchiveBefore(ctx, now.Add(-retention), now)
		return archErr
	})
	if err != nil {
		return 0, storeError(err, "archive register checks")
	}
	s.metrics.AddChecksArchived(archived)
	s.logger.InfoContext(ctx, "register checks archived",
		"request_id", requestcontext.RequestID(ctx),
		"archived", archived,
	)
	return archived, nil
}
