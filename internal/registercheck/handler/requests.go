package handler

import (
	"time"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
)

// SubmitResultRequest is the body of POST /registerchecks/{correlationId}.
type SubmitResultRequest struct {
	RequestID                    string         `json:"requestId"`
	JurisdictionCode             string         `json:"jurisdictionCode"`
	CreatedAt                    *time.Time     `json:"createdAt"`
	MatchCount                   *int           `json:"matchCount"`
	Matches                      []models.Match `json:"matches"`
	HistoricalSearchEarliestDate *time.Time     `json:"historicalSearchEarliestDate,omitempty"`

	requestID id.CorrelationID
	code      id.JurisdictionCode
}

// Validate checks field presence and formats. Cross-field rules (count
// against matches, ownership, status) belong to the service.
func (r *SubmitResultRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.RequestID == "" {
		return dErrors.New(dErrors.CodeValidation, "requestId is required")
	}
	requestID, err := id.ParseCorrelationID(r.RequestID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "requestId must be a UUID")
	}
	r.requestID = requestID

	if r.JurisdictionCode == "" {
		return dErrors.New(dErrors.CodeValidation, "jurisdictionCode is required")
	}
	code, err := id.ParseJurisdictionCode(r.JurisdictionCode)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "jurisdictionCode is invalid")
	}
	r.code = code

	if r.CreatedAt == nil || r.CreatedAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "createdAt is required")
	}
	if r.MatchCount == nil {
		return dErrors.New(dErrors.CodeValidation, "matchCount is required")
	}
	if *r.MatchCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "matchCount must not be negative")
	}
	return nil
}

// toResult builds the domain result. Call only after Validate.
func (r *SubmitResultRequest) toResult(correlationID id.CorrelationID) *models.Result {
	return &models.Result{
		CorrelationID:                correlationID,
		RequestID:                    r.requestID,
		JurisdictionCode:             r.code,
		CreatedAt:                    *r.CreatedAt,
		MatchCount:                   *r.MatchCount,
		Matches:                      r.Matches,
		HistoricalSearchEarliestDate: r.HistoricalSearchEarliestDate,
	}
}
