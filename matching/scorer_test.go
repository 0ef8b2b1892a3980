package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected int
	}{
		{"identical", []string{"save", "the", "file"}, []string{"save", "the", "file"}, 100},
		{"both empty", []string{}, []string{}, 100},
		{"one empty", []string{"save"}, []string{}, 0},
		{"one token inserted", []string{"save", "file"}, []string{"save", "the", "file"}, 66},
		{"one token replaced", []string{"open", "the", "file"}, []string{"save", "the", "file"}, 66},
		{"all different", []string{"abc"}, []string{"xyz"}, 0},
		{"all tokens differ by one letter", []string{"cat", "sat"}, []string{"cut", "set"}, 0},
		{"near token", []string{"term"}, []string{"termite"}, 0},
		{"far token", []string{"term"}, []string{"terminology"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.a, tt.b))
			assert.Equal(t, tt.expected, Score(tt.b, tt.a), "score must be symmetric")
		})
	}
}

func TestScore_HundredOnlyForEqualSequences(t *testing.T) {
	pairs := [][2][]string{
		{{"a"}, {"a", "a"}},
		{{"open", "file"}, {"file", "open"}},
		{{"configuration"}, {"configurations"}},
		{{"x", "y", "z"}, {"x", "y"}},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.Less(t, s, 100, "%v vs %v", p[0], p[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, Similarity(p[0], p[1]), 100, "%v vs %v", p[0], p[1])
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100, Similarity([]string{"save", "file"}, []string{"save", "file"}))
	assert.Equal(t, 57, Similarity([]string{"term"}, []string{"termite"}))
	assert.Equal(t, 36, Similarity([]string{"term"}, []string{"terminology"}))
	assert.Equal(t, 66, Similarity([]string{"cat", "sat"}, []string{"cut", "set"}))
	assert.Zero(t, Similarity([]string{"abc"}, []string{"xyz"}))

	// Never below the whole-token score
	a, b := []string{"save", "the", "file"}, []string{"save", "a", "files"}
	assert.GreaterOrEqual(t, Similarity(a, b), Score(a, b))
}

func TestTokenDistance(t *testing.T) {
	assert.Zero(t, TokenDistance([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, 2.0, TokenDistance([]string{"a", "b"}, nil))
	assert.Equal(t, 1.0, TokenDistance([]string{"a", "b"}, []string{"a"}))
	assert.Equal(t, 1.0, TokenDistance([]string{"term"}, []string{"termite"}))
	assert.Equal(t, 2.0, TokenDistance([]string{"cat", "sat"}, []string{"cut", "set"}))

	// Swapping two tokens costs two substitutions
	assert.Equal(t, 2.0, TokenDistance([]string{"ab", "xy"}, []string{"xy", "ab"}))
}

func TestCharacterDistance(t *testing.T) {
	assert.Zero(t, CharacterDistance([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, 2.0, CharacterDistance([]string{"a", "b"}, nil))
	assert.InDelta(t, 3.0/7.0, CharacterDistance([]string{"term"}, []string{"termite"}), 1e-9)
	assert.Equal(t, 2.0, CharacterDistance([]string{"ab", "xy"}, []string{"xy", "ab"}))
}
