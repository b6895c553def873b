package models

// Status is the lifecycle state of a register check.
type Status string

const (
	StatusPending              Status = "PENDING"
	StatusNoMatch              Status = "NO_MATCH"
	StatusExactMatch           Status = "EXACT_MATCH"
	StatusPartialMatch         Status = "PARTIAL_MATCH"
	StatusMultipleMatch        Status = "MULTIPLE_MATCH"
	StatusTooManyMatches       Status = "TOO_MANY_MATCHES"
	StatusPendingDetermination Status = "PENDING_DETERMINATION"
	StatusExpired              Status = "EXPIRED"
	StatusNotStarted           Status = "NOT_STARTED"
	StatusArchived             Status = "ARCHIVED"
)

// IsPending reports whether a result may still be applied.
func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsOutcome reports whether s is a terminal match outcome (not pending, not operational).
func (s Status) IsOutcome() bool {
	switch s {
	case StatusNoMatch, StatusExactMatch, StatusPartialMatch, StatusMultipleMatch,
		StatusTooManyMatches, StatusPendingDetermination, StatusExpired, StatusNotStarted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
