//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCorrelationID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseCorrelationID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE register_checks;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCorrelationID(input)
		if err == nil {
			roundTrip, err2 := ParseCorrelationID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseJurisdictionCode checks accepted codes are stable under re-parsing.
func FuzzParseJurisdictionCode(f *testing.F) {
	f.Add("E09000007")
	f.Add(" w06000015 ")
	f.Add("​")

	f.Fuzz(func(t *testing.T, input string) {
		code, err := ParseJurisdictionCode(input)
		if err != nil {
			return
		}
		again, err := ParseJurisdictionCode(code.String())
		if err != nil || again != code {
			t.Errorf("code %q not stable: %q, %v", code, again, err)
		}
	})
}
