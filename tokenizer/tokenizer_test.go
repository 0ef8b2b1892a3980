package tokenizer

import (
	"testing"

	"github.com/poiesic/tmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTokenizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"punctuation only", "...!?", []string{}},
		{"single word", "Term", []string{"term"}},
		{"sentence", "Hello, world! How are you?", []string{"hello", "world", "how", "are", "you"}},
		{"digits kept", "Chapter 12 begins", []string{"chapter", "12", "begins"}},
		{"non latin", "Добрый день", []string{"добрый", "день"}},
		{"fullwidth folded", "ＡＢＣ", []string{"abc"}},
		{"apostrophe splits", "don't", []string{"don", "t"}},
	}

	tok := DefaultTokenizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.text))
		})
	}
}

func TestDefaultTokenizer_Deterministic(t *testing.T) {
	tok := DefaultTokenizer{}
	text := "The quick brown fox jumps over the lazy dog."
	assert.Equal(t, tok.Tokenize(text), tok.Tokenize(text))
}

func TestStemmingTokenizer(t *testing.T) {
	tok, err := NewStemmingTokenizer("en")
	require.NoError(t, err)
	assert.Equal(t, "snowball-english", tok.Name())

	// Inflected forms reduce to the same stem.
	assert.Equal(t, tok.Tokenize("running"), tok.Tokenize("run"))
	assert.Equal(t, tok.Tokenize("files"), tok.Tokenize("file"))

	// Segmentation matches the default tokenizer.
	assert.Len(t, tok.Tokenize("Open the saved files."), 4)
	assert.Empty(t, tok.Tokenize("  "))
}

func TestNewStemmingTokenizer_Unsupported(t *testing.T) {
	_, err := NewStemmingTokenizer("cnr")
	assert.ErrorIs(t, err, ErrNoStemmer)
}

func TestTable(t *testing.T) {
	table := NewTable()

	t.Run("stemmer by base code", func(t *testing.T) {
		assert.Equal(t, "snowball-english", table.For(core.NewLanguage("en-US")).Name())
		assert.Equal(t, "snowball-french", table.For(core.NewLanguage("fr")).Name())
	})

	t.Run("fallback to default", func(t *testing.T) {
		assert.Equal(t, "default", table.For(core.NewLanguage("cnr")).Name())
		assert.Equal(t, "default", table.For("").Name())
	})

	t.Run("register overrides", func(t *testing.T) {
		require.NoError(t, table.Register("en", DefaultTokenizer{}))
		assert.Equal(t, "default", table.For(core.NewLanguage("en-GB")).Name())
	})

	t.Run("register nil", func(t *testing.T) {
		assert.ErrorIs(t, table.Register("de", nil), ErrTokenizerRequired)
	})
}

func TestNewEmptyTable(t *testing.T) {
	table := NewEmptyTable()
	assert.Equal(t, "default", table.For(core.NewLanguage("en")).Name())
}

func TestSegmentingTokenizer(t *testing.T) {
	tok := SegmentingTokenizer{}

	assert.Equal(t, []string{"hello", "world"}, tok.Tokenize("Hello, World!"))
	assert.Equal(t, []string{"中", "文"}, tok.Tokenize("中文"))
	assert.Empty(t, tok.Tokenize(" ... "))
	assert.NotNil(t, tok.Tokenize(""))
}

func TestTable_Segmenter(t *testing.T) {
	table := NewTable()
	assert.Equal(t, "uax29", table.For(core.NewLanguage("zh-Hans")).Name())
	assert.Equal(t, "uax29", table.For(core.NewLanguage("ja")).Name())
}
