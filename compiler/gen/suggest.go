package gen

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance catches a missing, extra or swapped character without
// matching unrelated words.
const maxSuggestDistance = 3

// closest returns the option nearest to input within maxSuggestDistance.
// Comparison is case-insensitive; ties keep the first option.
func closest(input string, options []string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	in := strings.ToLower(input)
	for _, opt := range options {
		if d := levenshtein.ComputeDistance(in, strings.ToLower(opt)); d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best, bestDist <= maxSuggestDistance
}

// suggest returns a "did you mean" hint, or an empty string.
func suggest(input string, options []string) string {
	if match, ok := closest(input, options); ok {
		return fmt.Sprintf("did you mean %q?", match)
	}
	return ""
}
