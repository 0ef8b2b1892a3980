package tokenizer

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Languages written without spaces between words.
var segmentedLanguages = []string{"zh", "ja", "ko"}

// SegmentingTokenizer splits text on Unicode word boundaries (UAX #29).
// Ideographs become one token each, which the default tokenizer would
// merge into a single run.
type SegmentingTokenizer struct{}

var _ Tokenizer = SegmentingTokenizer{}

// Name returns "uax29".
func (SegmentingTokenizer) Name() string {
	return "uax29"
}

// Tokenize implements Tokenizer.
func (SegmentingTokenizer) Tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))
	tokens := []string{}
	state := -1
	var word string
	for text != "" {
		word, text, state = uniseg.FirstWordInString(text, state)
		if strings.IndexFunc(word, isWordRune) >= 0 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
