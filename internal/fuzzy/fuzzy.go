// Package fuzzy provides the edit-similarity scores used by customer-name
// matching. Scores are 0-100, where 100 means identical.
package fuzzy

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns the normalized edit similarity of a and b as an integer
// percentage. Comparison is case-insensitive.
func Ratio(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// PartialRatio returns the best Ratio of the shorter string against every
// window of the same rune length in the longer string. It is the score used
// when a short name is expected to appear somewhere inside a full document.
func PartialRatio(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}
	if len(short) == len(long) {
		return Ratio(string(short), string(long))
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(string(short), string(long[i:i+len(short)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}
