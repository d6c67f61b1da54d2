package healing

import "github.com/agnivade/levenshtein"

// Similarity returns the normalized edit-distance similarity of two strings:
// (max(len1,len2) - editDistance) / max(len1,len2). Symmetric, bounded to
// [0,1], and 1.0 for identical strings including two empties.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}
