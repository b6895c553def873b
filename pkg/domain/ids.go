// Package domain holds the typed identifiers shared across bounded contexts.
//
// Typed IDs stop a correlation id from being passed where a check id is
// expected. Parsing happens once at trust boundaries (HTTP path, queue
// payload); everything inside works with the typed value.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "regcheck/pkg/domain-errors"
)

const maxCodeLength = 32

type (
	// CheckID is the system-generated primary key of a register check.
	CheckID uuid.UUID
	// CorrelationID is the external request id of a register check and the
	// idempotency key for result submission.
	CorrelationID uuid.UUID
)

// AuthorityID identifies an administrative authority in the identity directory.
type AuthorityID string

// JurisdictionCode identifies a governed area owned by an authority.
type JurisdictionCode string

func NewCheckID() CheckID             { return CheckID(uuid.New()) }
func NewCorrelationID() CorrelationID { return CorrelationID(uuid.New()) }

func (id CheckID) String() string       { return uuid.UUID(id).String() }
func (id CorrelationID) String() string { return uuid.UUID(id).String() }

func (id CheckID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CorrelationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id CorrelationID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *CorrelationID) UnmarshalText(b []byte) error {
	parsed, err := ParseCorrelationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (a AuthorityID) String() string      { return string(a) }
func (j JurisdictionCode) String() string { return string(j) }

// ParseCheckID parses a non-nil UUID check id.
func ParseCheckID(s string) (CheckID, error) {
	u, err := parseUUID(s, "check id")
	return CheckID(u), err
}

// ParseCorrelationID parses a non-nil UUID correlation id.
func ParseCorrelationID(s string) (CorrelationID, error) {
	u, err := parseUUID(s, "correlation id")
	return CorrelationID(u), err
}

// ParseAuthorityID trims and validates an authority id.
func ParseAuthorityID(s string) (AuthorityID, error) {
	v, err := parseCode(s, "authority id")
	return AuthorityID(v), err
}

// ParseJurisdictionCode trims, upper-cases and validates a jurisdiction code.
func ParseJurisdictionCode(s string) (JurisdictionCode, error) {
	v, err := parseCode(strings.ToUpper(s), "jurisdiction code")
	return JurisdictionCode(v), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > 36 || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func parseCode(s, label string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > maxCodeLength || !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
		}
	}
	return s, nil
}
