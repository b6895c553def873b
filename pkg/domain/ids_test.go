package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regcheck/pkg/domain-errors"
)

// TestParseCorrelationID_Invariants validates the parsing invariant:
// "correlation ids must be valid, non-empty, non-nil UUIDs"
//
// Justification: correlation ids arrive in URL paths from the matching
// service and are the idempotency key for result submission.
func TestParseCorrelationID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCorrelationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCorrelationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCorrelationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseCorrelationID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, CorrelationID(valid), id)
	})
}

func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE register_checks;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCorrelationID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseJurisdictionCode(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		code, err := ParseJurisdictionCode("  e09000007 ")
		require.NoError(t, err)
		assert.Equal(t, JurisdictionCode("E09000007"), code)
	})

	t.Run("rejects punctuation", func(t *testing.T) {
		_, err := ParseJurisdictionCode("E0900;0007")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized codes", func(t *testing.T) {
		_, err := ParseJurisdictionCode(strings.Repeat("E", 33))
		require.Error(t, err)
	})
}

func TestParseAuthorityID(t *testing.T) {
	id, err := ParseAuthorityID(" authority-123 ")
	require.NoError(t, err)
	assert.Equal(t, AuthorityID("authority-123"), id)

	_, err = ParseAuthorityID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCorrelationIDTextRoundTrip(t *testing.T) {
	id := NewCorrelationID()
	text, err := id.MarshalText()
	require.NoError(t, err)

	var decoded CorrelationID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, id, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("garbage")))
}
