package models

import (
	"strings"

	dErrors "regcheck/pkg/domain-errors"
)

// SourceType is the request category. Each category has its own result topic.
type SourceType string

const (
	SourceTypeVoterCard    SourceType = "VOTER_CARD"
	SourceTypePostalVote   SourceType = "POSTAL_VOTE"
	SourceTypeProxyVote    SourceType = "PROXY_VOTE"
	SourceTypeOverseasVote SourceType = "OVERSEAS_VOTE"
)

// SourceTypes lists every category in a stable order.
func SourceTypes() []SourceType {
	return []SourceType{SourceTypeVoterCard, SourceTypePostalVote, SourceTypeProxyVote, SourceTypeOverseasVote}
}

// ParseSourceType accepts a category name in any case.
func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range SourceTypes() {
		if st == known {
			return st, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown source type %q", s)
}

func (s SourceType) String() string { return string(s) }
