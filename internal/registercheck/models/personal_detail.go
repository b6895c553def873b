package models

import (
	"strings"
	"unicode"

	id "regcheck/pkg/domain"
)

// Address is the applicant's postal address.
type Address struct {
	Street   string `json:"street,omitempty"`
	Property string `json:"property,omitempty"`
	Locality string `json:"locality,omitempty"`
	Town     string `json:"town,omitempty"`
	Area     string `json:"area,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	UPRN     string `json:"uprn,omitempty"`
}

// PersonalDetail is the applicant record and the shape of each candidate match.
type PersonalDetail struct {
	FirstName   string   `json:"firstName"`
	MiddleNames string   `json:"middleNames,omitempty"`
	Surname     string   `json:"surname"`
	DateOfBirth *id.Date `json:"dateOfBirth,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     Address  `json:"address"`
}

// NormalizePostcode uppercases and drops all whitespace: "l1 1ab" -> "L11AB".
func NormalizePostcode(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	for _, r := range p {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
