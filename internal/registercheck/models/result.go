package models

import (
	"time"

	id "regcheck/pkg/domain"
)

// MaxMatches is the largest count for which candidates are returned individually.
const MaxMatches = 10

// VotingArrangement describes a postal or proxy vote attached to a candidate.
type VotingArrangement struct {
	UntilFurtherNotice bool     `json:"untilFurtherNotice"`
	ForSingleDate      *id.Date `json:"forSingleDate,omitempty"`
	StartDate          *id.Date `json:"startDate,omitempty"`
	EndDate            *id.Date `json:"endDate,omitempty"`
}

// Match is one candidate returned by the matching service.
type Match struct {
	PersonalDetail      PersonalDetail     `json:"personalDetail"`
	EMSElectorID        string             `json:"emsElectorId"`
	AttestationCount    int                `json:"attestationCount"`
	FranchiseCode       string             `json:"franchiseCode"`
	RegisteredStartDate *id.Date           `json:"registeredStartDate,omitempty"`
	RegisteredEndDate   *id.Date           `json:"registeredEndDate,omitempty"`
	CreatedAt           *time.Time         `json:"createdAt,omitempty"`
	PostalVote          *VotingArrangement `json:"postalVote,omitempty"`
	ProxyVote           *VotingArrangement `json:"proxyVote,omitempty"`
}

// Result is a submitted match result after decoding.
// CorrelationID comes from the transport; RequestID is what the payload claims.
type Result struct {
	CorrelationID                id.CorrelationID
	RequestID                    id.CorrelationID
	JurisdictionCode             id.JurisdictionCode
	CreatedAt                    time.Time
	MatchCount                   int
	Matches                      []Match
	HistoricalSearchEarliestDate *time.Time
}
