package storage

import (
	"testing"
	"time"

	"github.com/poiesic/tmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalTranslationRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.TranslationRecord
	}{
		{
			name: "minimal record",
			record: &core.TranslationRecord{
				Source:      "Hello",
				Translation: "Bonjour",
			},
		},
		{
			name: "full record",
			record: &core.TranslationRecord{
				Id:             core.IDFromContent("x"),
				Source:         "XXX",
				Translation:    "YYY",
				SourceLanguage: core.NewLanguage("en-US"),
				TargetLanguage: core.NewLanguage("sr"),
				Creator:        "alice",
				Changer:        "bob",
				CreatedAt:      now.Add(-time.Hour),
				ChangedAt:      now,
				Properties:     map[string]string{"file": "source.txt", "tuid": "1"},
			},
		},
		{
			name: "alternative translation",
			record: &core.TranslationRecord{
				Source:      "Open",
				Translation: "Ouvert",
				Alternative: &core.EntryKey{
					File:       "a.txt",
					SourceText: "Open",
					ID:         "12",
					Prev:       "File",
					Next:       "Save",
				},
			},
		},
		{
			name: "unicode text",
			record: &core.TranslationRecord{
				Source:      "Добрый день",
				Translation: "日本語のテキスト",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalTranslationRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalTranslationRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestUnmarshalTranslationRecord_Truncated(t *testing.T) {
	data := MarshalTranslationRecord(&core.TranslationRecord{
		Source:      "A fairly long source sentence",
		Translation: "Une phrase assez longue",
	})

	_, err := UnmarshalTranslationRecord(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalMemoryInfo(t *testing.T) {
	info := &core.MemoryInfo{
		Id:             "glossary.tmx",
		Kind:           core.OriginExternal,
		SourceLanguage: core.NewLanguage("en"),
		TargetLanguage: core.NewLanguage("fr-CA"),
		Path:           "/data/glossary.tmx",
		Position:       3,
		RecordCount:    1200,
		UpdatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalMemoryInfo(MarshalMemoryInfo(info))
	require.NoError(t, err)
	assert.Equal(t, info, decoded)
}

func TestMarshalTranslationRecord_PropertiesOrderStable(t *testing.T) {
	record := &core.TranslationRecord{
		Source:      "a",
		Translation: "b",
		Properties:  map[string]string{"z": "1", "a": "2", "m": "3"},
	}
	first := MarshalTranslationRecord(record)
	for range 10 {
		assert.Equal(t, first, MarshalTranslationRecord(record))
	}
}
