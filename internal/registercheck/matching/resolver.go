// Package matching classifies a submitted result into a terminal status.
package matching

import (
	"strings"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
)

const franchiseCodePending = "PENDING"

// Resolve maps a validated result to its terminal status. It is pure: the
// same result, applicant and day always give the same status.
//
// For a single candidate the checks run in a fixed order: a provisional
// franchise code, then the registration window, then identity comparison.
func Resolve(result *models.Result, applicant models.PersonalDetail, today id.Date) models.Status {
	switch {
	case result.MatchCount == 0:
		return models.StatusNoMatch
	case result.MatchCount == 1:
		if len(result.Matches) == 0 {
			// structurally invalid; the validator rejects this before resolution
			return models.StatusPartialMatch
		}
		return resolveSingle(result.Matches[0], applicant, today)
	case result.MatchCount <= models.MaxMatches:
		return models.StatusMultipleMatch
	default:
		return models.StatusTooManyMatches
	}
}

func resolveSingle(m models.Match, applicant models.PersonalDetail, today id.Date) models.Status {
	if strings.EqualFold(strings.TrimSpace(m.FranchiseCode), franchiseCodePending) {
		return models.StatusPendingDetermination
	}
	if m.RegisteredStartDate != nil && m.RegisteredStartDate.After(today) {
		return models.StatusNotStarted
	}
	if m.RegisteredEndDate != nil && m.RegisteredEndDate.Before(today) {
		return models.StatusExpired
	}
	if identical(m.PersonalDetail, applicant) {
		return models.StatusExactMatch
	}
	return models.StatusPartialMatch
}

// identical compares only names, postcode and date of birth. Other address lines are ignored.
func identical(candidate, applicant models.PersonalDetail) bool {
	return sameName(candidate.FirstName, applicant.FirstName) &&
		sameName(candidate.Surname, applicant.Surname) &&
		models.NormalizePostcode(candidate.Address.Postcode) == models.NormalizePostcode(applicant.Address.Postcode) &&
		sameDate(candidate.DateOfBirth, applicant.DateOfBirth)
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sameDate(a, b *id.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
