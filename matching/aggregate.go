package matching

import (
	"cmp"
	"slices"

	"github.com/poiesic/tmatch/core"
)

type aggregation struct {
	languages  Languages
	minScore   int
	maxResults int
	dropped    func(*candidate, DropReason)
}

type pairKey struct {
	source, translation string
}

// aggregate turns scored candidates into the final result list:
//  1. candidates translated into the query's source language are dropped
//  2. of candidates sharing source and translation text, the one with the
//     most specific language match survives, then the one from the
//     highest priority memory, then the earliest
//  3. survivors are ranked by score, then priority, then character
//     similarity, then generation order, and truncated
func aggregate(cands []candidate, a aggregation) []core.NearString {
	best := make(map[pairKey]int, len(cands))
	kept := make([]candidate, 0, len(cands))

	for i := range cands {
		c := &cands[i]
		if isEcho(c.language, a.languages) {
			a.dropped(c, DropEcho)
			continue
		}
		if c.score < a.minScore {
			a.dropped(c, DropBelowMinScore)
			continue
		}

		key := pairKey{c.record.Source, c.record.Translation}
		idx, dup := best[key]
		if !dup {
			best[key] = len(kept)
			kept = append(kept, *c)
			continue
		}

		incumbent := &kept[idx]
		loser := c
		if preferred(c, incumbent) {
			loser = incumbent
		}
		reason := DropDuplicate
		if loser.match.Specificity() < max(c.match.Specificity(), incumbent.match.Specificity()) {
			reason = DropLessSpecific
		}
		a.dropped(loser, reason)
		if loser == incumbent {
			*incumbent = *c
		}
	}

	slices.SortFunc(kept, func(x, y candidate) int {
		return cmp.Or(
			cmp.Compare(y.score, x.score),
			cmp.Compare(x.priority, y.priority),
			cmp.Compare(y.similar, x.similar),
			cmp.Compare(x.order, y.order),
		)
	})

	if len(kept) > a.maxResults {
		for i := a.maxResults; i < len(kept); i++ {
			a.dropped(&kept[i], DropTruncated)
		}
		kept = kept[:a.maxResults]
	}

	results := make([]core.NearString, len(kept))
	for i := range kept {
		results[i] = kept[i].nearString()
	}
	return results
}

// preferred reports whether c should replace incumbent as the survivor of
// their duplicate group.
func preferred(c, incumbent *candidate) bool {
	return cmp.Or(
		cmp.Compare(incumbent.match.Specificity(), c.match.Specificity()),
		cmp.Compare(c.priority, incumbent.priority),
		cmp.Compare(c.order, incumbent.order),
	) < 0
}

// isEcho reports whether a translation declared in lang is really written
// in the query's source language. When both project languages share a base
// code only an exact match with the source language counts.
func isEcho(lang core.Language, langs Languages) bool {
	if lang.IsZero() || langs.Source.IsZero() {
		return false
	}
	if langs.Source.SameBase(langs.Target) {
		return lang.Equal(langs.Source) && !lang.Equal(langs.Target)
	}
	return lang.SameBase(langs.Source)
}
