package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into an ordered sequence of tokens.
type Tokenizer interface {
	// Name identifies the tokenizer, e.g. for cache keys and logs.
	Name() string

	// Tokenize returns the tokens of text in order.
	// Returns an empty slice for text without letters or digits.
	Tokenize(text string) []string
}

// DefaultTokenizer is the language-agnostic tokenizer.
// Text is NFKC-normalized and lowercased, then split on every rune that
// is neither a letter, a mark nor a digit.
type DefaultTokenizer struct{}

var _ Tokenizer = DefaultTokenizer{}

// Name returns "default".
func (DefaultTokenizer) Name() string {
	return "default"
}

// Tokenize implements Tokenizer.
func (DefaultTokenizer) Tokenize(text string) []string {
	return split(text)
}

func split(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
	if fields == nil {
		return []string{}
	}
	return fields
}
