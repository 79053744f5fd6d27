package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeCategoryName lowercases s, trims it and joins whitespace-separated
// words with single hyphens: "  Park  Cleanup " -> "park-cleanup".
func NormalizeCategoryName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
