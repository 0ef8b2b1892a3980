package matching

import (
	"math"

	"github.com/xrash/smetrics"
)

// MaxScore is the score of identical token sequences.
const MaxScore = 100

// Score rates the similarity of two token sequences from 0 to MaxScore.
//
// The score is floor(100 * (1 - d/n)) where d is TokenDistance(a, b) and n
// the length of the longer sequence. Two empty sequences score MaxScore.
// Score is symmetric and returns MaxScore only for equal sequences.
func Score(a, b []string) int {
	return rate(TokenDistance(a, b), max(len(a), len(b)))
}

// Similarity rates two token sequences like Score, except that a
// substituted token costs its character edit distance divided by the
// length of the longer token. Near-identical words cost almost nothing.
// It orders matches whose Score is equal.
func Similarity(a, b []string) int {
	return rate(CharacterDistance(a, b), max(len(a), len(b)))
}

func rate(d float64, n int) int {
	if n == 0 || d == 0 {
		return MaxScore
	}
	score := int(math.Floor(MaxScore * (1 - d/float64(n))))
	return min(max(score, 0), MaxScore-1)
}

// TokenDistance is the edit distance between two token sequences, where
// inserting, deleting or substituting a whole token costs 1.
// The distance is 0 iff a and b are equal.
func TokenDistance(a, b []string) float64 {
	return editDistance(a, b, tokenCost)
}

// CharacterDistance is TokenDistance with substitutions weighted by the
// character edit distance of the two tokens, normalized to at most 1.
func CharacterDistance(a, b []string) float64 {
	return editDistance(a, b, characterCost)
}

func editDistance(a, b []string, substitution func(x, y string) float64) float64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return float64(len(a))
	}

	prev := make([]float64, len(b)+1)
	curr := make([]float64, len(b)+1)
	for j := range prev {
		prev[j] = float64(j)
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = float64(i)
		for j := 1; j <= len(b); j++ {
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+substitution(a[i-1], b[j-1]),
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenCost(a, b string) float64 {
	if a == b {
		return 0
	}
	return 1
}

func characterCost(a, b string) float64 {
	if a == b {
		return 0
	}
	n := max(len(a), len(b))
	return float64(smetrics.WagnerFischer(a, b, 1, 1, 1)) / float64(n)
}
