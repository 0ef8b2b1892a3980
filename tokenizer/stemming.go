package tokenizer

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// Languages with a Snowball stemmer, keyed by base code.
var stemmerLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"no": "norwegian",
	"nb": "norwegian",
	"hu": "hungarian",
}

// StemmingTokenizer segments like DefaultTokenizer and reduces every token
// to its Snowball stem, so inflected forms of a word compare equal.
type StemmingTokenizer struct {
	language string
}

var _ Tokenizer = (*StemmingTokenizer)(nil)

// NewStemmingTokenizer creates a stemming tokenizer for a language base code.
func NewStemmingTokenizer(base string) (*StemmingTokenizer, error) {
	lang, ok := stemmerLanguages[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoStemmer, base)
	}
	return &StemmingTokenizer{language: lang}, nil
}

// Name returns the stemmer language prefixed with "snowball-".
func (t *StemmingTokenizer) Name() string {
	return "snowball-" + t.language
}

// Tokenize implements Tokenizer.
func (t *StemmingTokenizer) Tokenize(text string) []string {
	tokens := split(text)
	for i, tok := range tokens {
		stemmed, err := snowball.Stem(tok, t.language, true)
		if err != nil || stemmed == "" {
			continue
		}
		tokens[i] = stemmed
	}
	return tokens
}

// StemmerLanguages returns the base codes that have a stemmer.
func StemmerLanguages() []string {
	out := make([]string, 0, len(stemmerLanguages))
	for base := range stemmerLanguages {
		out = append(out, base)
	}
	return out
}
