package validation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/sentinel"
	"regcheck/pkg/platform/tx"
)

type stubJurisdictions struct {
	codes []id.JurisdictionCode
	err   error
	calls int
}

func (s *stubJurisdictions) JurisdictionsFor(context.Context, id.AuthorityID) ([]id.JurisdictionCode, error) {
	s.calls++
	return s.codes, s.err
}

type stubChecks struct {
	byID  map[id.CorrelationID]*models.RegisterCheck
	calls int
	mode  tx.Mode
}

func (s *stubChecks) FindByCorrelationID(ctx context.Context, cid id.CorrelationID) (*models.RegisterCheck, error) {
	s.calls++
	s.mode = tx.ModeFrom(ctx)
	c, ok := s.byID[cid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c, nil
}

type ValidatorSuite struct {
	suite.Suite
	jurisdictions *stubJurisdictions
	checks        *stubChecks
	validator     *Validator
	check         *models.RegisterCheck
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.check = &models.RegisterCheck{
		CorrelationID:    id.NewCorrelationID(),
		JurisdictionCode: "E09",
		Status:           models.StatusPending,
	}
	s.jurisdictions = &stubJurisdictions{codes: []id.JurisdictionCode{"E09", "W06"}}
	s.checks = &stubChecks{byID: map[id.CorrelationID]*models.RegisterCheck{s.check.CorrelationID: s.check}}
	s.validator = New(s.jurisdictions, s.checks, tx.Passthrough{})
}

func (s *ValidatorSuite) result(count int, matches int) *models.Result {
	r := &models.Result{
		CorrelationID:    s.check.CorrelationID,
		RequestID:        s.check.CorrelationID,
		JurisdictionCode: "E09",
		MatchCount:       count,
	}
	if matches >= 0 {
		r.Matches = make([]models.Match, matches)
	}
	return r
}

func (s *ValidatorSuite) validate(r *models.Result) (*models.RegisterCheck, error) {
	return s.validator.Validate(context.Background(), s.check.CorrelationID, "auth-1", r)
}

// =============================================================================
// Rule order
// =============================================================================

func (s *ValidatorSuite) TestValidResultReturnsCheck() {
	got, err := s.validate(s.result(1, 1))
	s.Require().NoError(err)
	s.Same(s.check, got)
	s.Equal(tx.ReadWrite, s.checks.mode, "target check is read from the primary")
}

func (s *ValidatorSuite) TestRequestIDMismatch() {
	r := s.result(0, 0)
	r.RequestID = id.NewCorrelationID()

	_, err := s.validate(r)

	s.ErrorIs(err, ErrRequestIDMismatch)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Zero(s.jurisdictions.calls, "structural failures do not call the directory")
}

func (s *ValidatorSuite) TestRequestIDCheckedBeforeCount() {
	r := s.result(3, 1)
	r.RequestID = id.NewCorrelationID()

	_, err := s.validate(r)
	s.ErrorIs(err, ErrRequestIDMismatch)
}

func (s *ValidatorSuite) TestJurisdictionMismatch() {
	r := s.result(0, -1)
	r.JurisdictionCode = "S12"

	_, err := s.validate(r)

	s.ErrorIs(err, ErrJurisdictionMismatch)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Zero(s.checks.calls, "ownership is checked before the store")
}

func (s *ValidatorSuite) TestLookupErrorsPassThrough() {
	s.jurisdictions.err = dErrors.New(dErrors.CodeNotFound, "authority unknown")

	_, err := s.validate(s.result(0, 0))

	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ValidatorSuite) TestUnknownCheckIsNotFound() {
	r := s.result(0, 0)
	other := id.NewCorrelationID()
	r.RequestID = other

	_, err := s.validator.Validate(context.Background(), other, "auth-1", r)

	s.ErrorIs(err, sentinel.ErrNotFound)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ValidatorSuite) TestStoreFailureIsInternal() {
	s.validator = New(s.jurisdictions, failingFinder{}, tx.Passthrough{})

	_, err := s.validate(s.result(0, 0))

	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ValidatorSuite) TestNonPendingIsConflict() {
	for _, st := range []models.Status{models.StatusExactMatch, models.StatusNoMatch, models.StatusArchived} {
		s.Run(string(st), func() {
			s.check.Status = st
			_, err := s.validate(s.result(0, 0))
			s.ErrorIs(err, ErrUnexpectedStatus)
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		})
	}
}

// =============================================================================
// Match count consistency
// =============================================================================

func (s *ValidatorSuite) TestCountWithinRangeRequiresEqualLength() {
	for count := 1; count <= models.MaxMatches; count++ {
		for length := 0; length <= models.MaxMatches+1; length++ {
			s.Run(fmt.Sprintf("count=%d len=%d", count, length), func() {
				err := CheckStructure(s.check.CorrelationID, s.result(count, length))
				if length == count {
					s.NoError(err)
				} else {
					s.ErrorIs(err, ErrMatchCountMismatch)
				}
			})
		}
	}
}

func (s *ValidatorSuite) TestZeroOrTooManyRequiresNoMatches() {
	for _, count := range []int{0, 11, 12, 500} {
		s.Run(fmt.Sprintf("count=%d absent", count), func() {
			s.NoError(CheckStructure(s.check.CorrelationID, s.result(count, -1)))
		})
		s.Run(fmt.Sprintf("count=%d empty", count), func() {
			s.NoError(CheckStructure(s.check.CorrelationID, s.result(count, 0)))
		})
		s.Run(fmt.Sprintf("count=%d non-empty", count), func() {
			s.ErrorIs(CheckStructure(s.check.CorrelationID, s.result(count, 1)), ErrMatchCountMismatch)
		})
	}
}

func (s *ValidatorSuite) TestElevenWithMatchesIsRejected() {
	_, err := s.validate(s.result(11, 11))
	s.ErrorIs(err, ErrMatchCountMismatch)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ValidatorSuite) TestNegativeCount() {
	s.ErrorIs(CheckStructure(s.check.CorrelationID, s.result(-1, 0)), ErrMatchCountMismatch)
}

type failingFinder struct{}

func (failingFinder) FindByCorrelationID(context.Context, id.CorrelationID) (*models.RegisterCheck, error) {
	return nil, errors.New("connection reset")
}
