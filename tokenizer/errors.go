package tokenizer

import "errors"

var (
	// ErrNoStemmer is returned when no stemmer exists for a language.
	ErrNoStemmer = errors.New("no stemmer for language")

	// ErrTokenizerRequired is returned when a nil tokenizer is registered.
	ErrTokenizerRequired = errors.New("tokenizer required")
)
