// Package strings provides string list helpers for configuration values.
package strings

import (
	"strings"
)

// SplitList splits a separated list, trims each entry and drops empty and
// repeated entries. Order of first occurrence is preserved.
//
//	SplitList(" 10.0.0.5, ,10.0.0.0/24,10.0.0.5", ",")
//	// []string{"10.0.0.5", "10.0.0.0/24"}
func SplitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return DedupeAndTrim(strings.Split(s, sep))
}

// DedupeAndTrim removes duplicates and blank entries, trimming whitespace
// from each element.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
