package models

import (
	"strings"
	"time"

	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
)

// SystemCreator is recorded as CreatedBy when the initiating event names no requester.
const SystemCreator = "system"

// RegisterCheck is the aggregate root of the check lifecycle.
//
// Invariants:
//   - CorrelationID is immutable and unique
//   - Status moves from PENDING to a match outcome exactly once
//   - only a match outcome may later become ARCHIVED
//   - Version is advanced by the store on every persisted mutation
type RegisterCheck struct {
	ID                  id.CheckID
	CorrelationID       id.CorrelationID
	SourceReference     string
	SourceCorrelationID string
	SourceType          SourceType
	JurisdictionCode    id.JurisdictionCode
	Status              Status
	MatchCount          int
	MatchResultSentAt   *time.Time
	PersonalDetail      PersonalDetail
	Version             int64
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewPendingCheck builds a fresh PENDING check from an initiate event.
func NewPendingCheck(evt InitiateCheck, now time.Time) (*RegisterCheck, error) {
	st, err := ParseSourceType(string(evt.SourceType))
	if err != nil {
		return nil, err
	}
	code, err := id.ParseJurisdictionCode(string(evt.JurisdictionCode))
	if err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(evt.SourceReference)
	if ref == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "sourceReference is required")
	}
	srcCorr := strings.TrimSpace(evt.SourceCorrelationID)
	if srcCorr == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "sourceCorrelationId is required")
	}
	createdBy := strings.TrimSpace(evt.RequestedBy)
	if createdBy == "" {
		createdBy = SystemCreator
	}

	return &RegisterCheck{
		ID:                  id.NewCheckID(),
		CorrelationID:       id.NewCorrelationID(),
		SourceReference:     ref,
		SourceCorrelationID: srcCorr,
		SourceType:          st,
		JurisdictionCode:    code,
		Status:              StatusPending,
		PersonalDetail:      evt.PersonalDetail,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ApplyResult records the resolved outcome. It fails when the check already left PENDING.
func (c *RegisterCheck) ApplyResult(status Status, matchCount int, now time.Time) error {
	if !c.Status.IsPending() {
		return dErrors.Newf(dErrors.CodeConflict, "register check is %s, not PENDING", c.Status)
	}
	if !status.IsOutcome() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s is not a match outcome", status)
	}
	sentAt := now
	c.Status = status
	c.MatchCount = matchCount
	c.MatchResultSentAt = &sentAt
	c.UpdatedAt = now
	return nil
}

// Archive retires a finished check.
func (c *RegisterCheck) Archive(now time.Time) error {
	if !c.Status.IsOutcome() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot archive a %s check", c.Status)
	}
	c.Status = StatusArchived
	c.UpdatedAt = now
	return nil
}
