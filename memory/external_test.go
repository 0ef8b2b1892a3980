package memory

import (
	"testing"

	"github.com/poiesic/tmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExternalMemory(t *testing.T) {
	records := []core.TranslationRecord{
		{Source: "XXX", Translation: "XXX", TargetLanguage: core.NewLanguage("en-US")},
		{Source: "XXX", Translation: "YYY", TargetLanguage: core.NewLanguage("sr")},
		{Source: "", Translation: "broken"},
		{Source: "ZZZ", Translation: ""},
	}

	m, err := NewExternalMemory("en-US_sr.tmx", core.NewLanguage("en-US"), core.NewLanguage("sr"), records, WithPath("/tmp/en-US_sr.tmx"))
	require.NoError(t, err)

	assert.Equal(t, "en-US_sr.tmx", m.ID())
	assert.Equal(t, "/tmp/en-US_sr.tmx", m.Path())
	assert.Equal(t, core.OriginExternal, m.Kind())
	assert.Equal(t, 2, m.Len(), "malformed records are dropped at load time")

	for _, rec := range m.Records() {
		assert.NotZero(t, rec.Id)
	}

	src, tgt := m.Languages()
	assert.Equal(t, core.NewLanguage("en-US"), src)
	assert.Equal(t, core.NewLanguage("sr"), tgt)
}

func TestNewExternalMemory_RequiresID(t *testing.T) {
	_, err := NewExternalMemory("", "en", "fr", nil)
	assert.ErrorIs(t, err, ErrMemoryIDRequired)
}

func TestExternalMemory_RecordsNear(t *testing.T) {
	m, err := NewExternalMemory("ext", "en", "fr", []core.TranslationRecord{
		{Source: "term", Translation: "terme"},
		{Source: "terminology", Translation: "terminologie"},
		{Source: "term", Translation: "durée"},
	})
	require.NoError(t, err)

	fuzzy := collect(m.RecordsNear(Query{Text: "term"}))
	assert.Equal(t, []string{"terme", "terminologie", "durée"}, translations(fuzzy))

	exact := collect(m.RecordsNear(Query{Text: "term", ExactOnly: true}))
	assert.Equal(t, []string{"terme", "durée"}, translations(exact))
}

func TestExternalMemory_Empty(t *testing.T) {
	m, err := NewExternalMemory("empty", "en", "fr", nil)
	require.NoError(t, err)
	assert.Empty(t, collect(m.RecordsNear(Query{Text: "anything"})))
}
