package tokenizer

import (
	"sync"

	"github.com/poiesic/tmatch/core"
)

// Table maps language base codes to tokenizers.
// Lookups fall back to the default tokenizer. Table is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	byBase   map[string]Tokenizer
	fallback Tokenizer
}

// NewTable creates a table with a stemming tokenizer registered for every
// language Snowball supports and a word segmenter for languages written
// without spaces.
func NewTable() *Table {
	t := NewEmptyTable()
	for _, base := range segmentedLanguages {
		t.byBase[base] = SegmentingTokenizer{}
	}
	for _, base := range StemmerLanguages() {
		st, err := NewStemmingTokenizer(base)
		if err != nil {
			continue
		}
		t.byBase[base] = st
	}
	return t
}

// NewEmptyTable creates a table that always returns the default tokenizer
// until entries are registered.
func NewEmptyTable() *Table {
	return &Table{
		byBase:   make(map[string]Tokenizer),
		fallback: DefaultTokenizer{},
	}
}

// Register associates a tokenizer with a language base code, replacing any
// previous entry.
func (t *Table) Register(base string, tok Tokenizer) error {
	if tok == nil {
		return ErrTokenizerRequired
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byBase[core.Language(base).Base()] = tok
	return nil
}

// For returns the tokenizer for a language.
func (t *Table) For(lang core.Language) Tokenizer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if tok, ok := t.byBase[lang.Base()]; ok {
		return tok
	}
	return t.fallback
}
