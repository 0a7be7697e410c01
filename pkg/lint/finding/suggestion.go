package finding

import (
	"fmt"
	"strings"
)

// SuggestValue suggests the closest allowed value for a rejected one. It uses
// Levenshtein distance on the lower-cased strings.
func SuggestValue(unknown string, allowed []string) string {
	if len(allowed) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, candidate := range allowed {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(candidate))
		if dist < minDistance {
			minDistance = dist
			bestMatch = candidate
		}
	}

	if minDistance < 4 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	return fmt.Sprintf("Allowed values: %s", strings.Join(allowed, ", "))
}

// SuggestMissingKey suggests adding a manifest key.
func SuggestMissingKey(key string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add '%s': %s to the manifest", key, exampleValue)
	}
	return fmt.Sprintf("Add '%s' to the manifest", key)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
