// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimUpper is like DedupeAndTrim but also uppercases each element.
// Jurisdiction codes are compared this way.
//
// Example:
//
//	DedupeAndTrimUpper([]string{"  e09 ", "E09", "w06"})
//	// Returns: []string{"E09", "W06"}
func DedupeAndTrimUpper(values []string) []string {
	return dedupe(values, func(s string) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
}

// SplitCSV splits a comma separated list and trims, dedupes and drops empty items.
// An empty or blank input yields nil.
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(raw, ","))
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}

	return result
}
