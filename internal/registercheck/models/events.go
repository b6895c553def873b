package models

import (
	"encoding/json"
	"time"

	id "regcheck/pkg/domain"
)

// InitiateCheck asks for a new register check. Raw keeps the received bytes
// so replication can forward the event unmodified.
type InitiateCheck struct {
	SourceType          SourceType          `json:"sourceType"`
	SourceReference     string              `json:"sourceReference"`
	SourceCorrelationID string              `json:"sourceCorrelationId"`
	RequestedBy         string              `json:"requestedBy"`
	JurisdictionCode    id.JurisdictionCode `json:"jurisdictionCode"`
	PersonalDetail      PersonalDetail      `json:"personalDetail"`

	Raw json.RawMessage `json:"-"`
}

// RemoveCheckData asks for every check of a source record to be deleted.
type RemoveCheckData struct {
	SourceType       SourceType          `json:"sourceType"`
	SourceReference  string              `json:"sourceReference"`
	JurisdictionCode id.JurisdictionCode `json:"jurisdictionCode"`

	Raw json.RawMessage `json:"-"`
}

// FinalizedResult is published to the source type's result topic.
type FinalizedResult struct {
	SourceType                   SourceType `json:"sourceType"`
	SourceReference              string     `json:"sourceReference"`
	SourceCorrelationID          string     `json:"sourceCorrelationId"`
	Result                       Status     `json:"registerCheckResult"`
	Matches                      []Match    `json:"matches"`
	HistoricalSearchEarliestDate *time.Time `json:"historicalSearchEarliestDate,omitempty"`
}

// PendingSummary is the admin view of a pending check.
type PendingSummary struct {
	SourceReference  string              `json:"sourceReference"`
	SourceType       SourceType          `json:"sourceType"`
	JurisdictionCode id.JurisdictionCode `json:"jurisdictionCode"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// JurisdictionStaleness aggregates pending checks older than a cutoff.
type JurisdictionStaleness struct {
	JurisdictionCode id.JurisdictionCode
	StaleCount       int
	OldestPendingAt  time.Time
}
