// Package validation enforces the structural and ownership rules a submitted
// result must pass before it is resolved.
package validation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/sentinel"
	"regcheck/pkg/platform/tx"
)

// Rule violations. Each is wrapped in a coded error so callers can use errors.Is.
var (
	ErrRequestIDMismatch    = errors.New("request id mismatch")
	ErrMatchCountMismatch   = errors.New("match count mismatch")
	ErrJurisdictionMismatch = errors.New("jurisdiction mismatch")
	ErrUnexpectedStatus     = errors.New("unexpected status")
)

// JurisdictionLookup resolves the codes an authority administers.
type JurisdictionLookup interface {
	JurisdictionsFor(ctx context.Context, authority id.AuthorityID) ([]id.JurisdictionCode, error)
}

// CheckFinder loads a check by correlation id, returning sentinel.ErrNotFound when absent.
type CheckFinder interface {
	FindByCorrelationID(ctx context.Context, correlationID id.CorrelationID) (*models.RegisterCheck, error)
}

// Validator applies the rules in a fixed order and stops at the first violation.
type Validator struct {
	jurisdictions JurisdictionLookup
	checks        CheckFinder
	runner        tx.Runner
}

func New(jurisdictions JurisdictionLookup, checks CheckFinder, runner tx.Runner) *Validator {
	return &Validator{jurisdictions: jurisdictions, checks: checks, runner: runner}
}

// Validate returns the target check when the result may be applied to it:
//
//  1. the transport id equals the payload requestId
//  2. a count in [1,10] has exactly that many matches
//  3. a count of 0 or above 10 has no matches
//  4. the payload jurisdiction is owned by the authority
//  5. the check exists
//  6. the check is still PENDING
//
// The check is read through the primary so a result applied moments ago is seen.
func (v *Validator) Validate(ctx context.Context, claimedID id.CorrelationID, authority id.AuthorityID, result *models.Result) (*models.RegisterCheck, error) {
	if err := CheckStructure(claimedID, result); err != nil {
		return nil, err
	}

	owned, err := v.jurisdictions.JurisdictionsFor(ctx, authority)
	if err != nil {
		return nil, err
	}
	if err := CheckJurisdiction(owned, result.JurisdictionCode); err != nil {
		return nil, err
	}

	var check *models.RegisterCheck
	err = v.runner.ReadWrite(ctx, func(ctx context.Context) error {
		var findErr error
		check, findErr = v.checks.FindByCorrelationID(ctx, claimedID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("register check %s not found", claimedID))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load register check")
	}

	if err := CheckPending(check); err != nil {
		return nil, err
	}
	return check, nil
}

// CheckStructure covers rules 1 to 3.
func CheckStructure(claimedID id.CorrelationID, result *models.Result) error {
	if result.RequestID != claimedID {
		return dErrors.Wrap(ErrRequestIDMismatch, dErrors.CodeBadRequest,
			fmt.Sprintf("requestId %s does not match %s", result.RequestID, claimedID))
	}
	n := len(result.Matches)
	switch {
	case result.MatchCount < 0:
		return dErrors.Wrap(ErrMatchCountMismatch, dErrors.CodeBadRequest, "matchCount must not be negative")
	case result.MatchCount >= 1 && result.MatchCount <= models.MaxMatches:
		if n != result.MatchCount {
			return dErrors.Wrap(ErrMatchCountMismatch, dErrors.CodeBadRequest,
				fmt.Sprintf("matchCount %d but %d matches supplied", result.MatchCount, n))
		}
	default:
		if n != 0 {
			return dErrors.Wrap(ErrMatchCountMismatch, dErrors.CodeBadRequest,
				fmt.Sprintf("matchCount %d must not carry matches", result.MatchCount))
		}
	}
	return nil
}

// CheckJurisdiction covers rule 4.
func CheckJurisdiction(owned []id.JurisdictionCode, code id.JurisdictionCode) error {
	if !slices.Contains(owned, code) {
		return dErrors.Wrap(ErrJurisdictionMismatch, dErrors.CodeForbidden,
			fmt.Sprintf("jurisdiction %s is not administered by the caller", code))
	}
	return nil
}

// CheckPending covers rule 6.
func CheckPending(check *models.RegisterCheck) error {
	if !check.Status.IsPending() {
		return dErrors.Wrap(ErrUnexpectedStatus, dErrors.CodeConflict,
			fmt.Sprintf("register check %s is %s", check.CorrelationID, check.Status))
	}
	return nil
}
