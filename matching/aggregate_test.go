package matching

import (
	"testing"

	"github.com/poiesic/tmatch/core"
	"github.com/stretchr/testify/assert"
)

func TestIsEcho(t *testing.T) {
	tests := []struct {
		name     string
		lang     core.Language
		langs    Languages
		expected bool
	}{
		{"same base as source", "en-US", Languages{"en", "cnr"}, true},
		{"exact source", "en", Languages{"en", "fr"}, true},
		{"target language", "fr", Languages{"en", "fr"}, false},
		{"unrelated language", "sr", Languages{"en", "cnr"}, false},
		{"undeclared", "", Languages{"en", "fr"}, false},
		{"no source language", "en", Languages{"", "fr"}, false},
		{"shared base, source variant", "en-US", Languages{"en-US", "en-GB"}, true},
		{"shared base, target variant", "en-GB", Languages{"en-US", "en-GB"}, false},
		{"shared base, bare base", "en", Languages{"en-US", "en-GB"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isEcho(tt.lang, tt.langs))
		})
	}
}

func TestEffectiveLanguage(t *testing.T) {
	assert.Equal(t, core.Language("sr"), effectiveLanguage("sr", "fr", "cnr"))
	assert.Equal(t, core.Language("fr"), effectiveLanguage("", "fr", "cnr"))
	assert.Equal(t, core.Language("cnr"), effectiveLanguage("", "", "cnr"))
}

func scored(source, translation string, score, priority, order int, match core.MatchKind) candidate {
	return candidate{
		record:   core.TranslationRecord{Source: source, Translation: translation},
		origin:   "tm",
		kind:     core.OriginExternal,
		priority: priority,
		order:    order,
		language: "fr",
		match:    match,
		score:    score,
	}
}

func TestAggregate(t *testing.T) {
	var drops []DropReason
	a := aggregation{
		languages:  Languages{Source: "en", Target: "fr"},
		maxResults: 3,
		dropped:    func(_ *candidate, r DropReason) { drops = append(drops, r) },
	}

	cands := []candidate{
		scored("b", "B", 80, 1, 0, core.MatchBase),
		scored("a", "A", 90, 2, 1, core.MatchExact),
		scored("b", "B", 80, 2, 2, core.MatchExact),
		scored("c", "C", 90, 1, 3, core.MatchExact),
		scored("d", "D", 10, 0, 4, core.MatchExact),
		scored("a", "A", 90, 3, 5, core.MatchExact),
	}

	results := aggregate(cands, a)
	assert.Len(t, results, 3)
	assert.Equal(t, "C", results[0].Translation) // 90, priority 1
	assert.Equal(t, "A", results[1].Translation) // 90, priority 2
	assert.Equal(t, "B", results[2].Translation)
	assert.Equal(t, core.MatchExact, results[2].Kind)
	assert.Equal(t, 2, results[2].Priority)

	assert.ElementsMatch(t, []DropReason{DropLessSpecific, DropDuplicate, DropTruncated}, drops)
}

func TestAggregate_EmptyIsNotNil(t *testing.T) {
	results := aggregate(nil, aggregation{maxResults: 5, dropped: func(*candidate, DropReason) {}})
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
