package matching

import (
	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/memory"
)

// candidate is a record pulled from a source, with everything the scorer
// and aggregator need to know about where it came from.
type candidate struct {
	record   core.TranslationRecord
	origin   string
	kind     core.OriginKind
	priority int // lower wins; project memory first
	order    int // generation order, breaks the remaining ties
	language core.Language
	match    core.MatchKind
	score    int
	similar  int // character-weighted score, orders equal scores
}

// unscored marks candidates the scorer never reached.
const unscored = -1

func (c *candidate) nearString() core.NearString {
	return core.NearString{
		Source:      c.record.Source,
		Translation: c.record.Translation,
		Score:       c.score,
		Similarity:  c.similar,
		Origin:      c.origin,
		OriginKind:  c.kind,
		Priority:    c.priority,
		Language:    c.language,
		Kind:        c.match,
		Creator:     c.record.Creator,
		ChangedAt:   c.record.ChangedAt,
		Properties:  c.record.Properties,
		Key:         c.record.Alternative,
	}
}

// generation holds the inputs of one candidate generation pass.
type generation struct {
	sources     []memory.Source
	query       memory.Query
	languages   Languages
	keepForeign bool
	stop        Probe
	accept      func(candidate)
	dropped     func(*candidate, DropReason)
}

// generateCandidates pulls records from every source in order and passes
// those worth scoring to accept. The probe is polled before each record;
// when it fires generation ends with cancelled set.
func generateCandidates(g generation) (accepted int, cancelled bool) {
	seen := 0
	for priority, src := range g.sources {
		_, nominalTarget := src.Languages()
		for rec := range src.RecordsNear(g.query) {
			if g.stop() {
				return accepted, true
			}

			c := candidate{
				record:   rec,
				origin:   src.ID(),
				kind:     src.Kind(),
				priority: priority,
				order:    seen,
				score:    unscored,
			}
			seen++
			c.language = effectiveLanguage(rec.TargetLanguage, nominalTarget, g.languages.Target)
			c.match = core.ClassifyLanguage(c.language, g.languages.Target)

			switch {
			case rec.Source == "" || rec.Translation == "":
				g.dropped(&c, DropEmpty)
			case g.query.ExactOnly && rec.Source != g.query.Text:
				g.dropped(&c, DropNotExact)
			case c.match == core.MatchForeign && !g.keepForeign:
				g.dropped(&c, DropForeign)
			default:
				g.accept(c)
				accepted++
			}
		}
	}
	return accepted, false
}

// effectiveLanguage resolves the language a translation is written in:
// the record's own declaration, else the memory's nominal target, else the
// requested target.
func effectiveLanguage(declared, nominal, requested core.Language) core.Language {
	switch {
	case !declared.IsZero():
		return declared
	case !nominal.IsZero():
		return nominal
	default:
		return requested
	}
}
