package matching

import "github.com/poiesic/tmatch/core"

// DropReason explains why a candidate did not reach the results.
type DropReason int

const (
	// DropEmpty marks records with an empty source or translation.
	DropEmpty DropReason = iota + 1
	// DropNotExact marks records whose source differs from the query in exact mode.
	DropNotExact
	// DropForeign marks records in a foreign language when foreign matches are not kept.
	DropForeign
	// DropEcho marks records whose translation is in the query's source language.
	DropEcho
	// DropBelowMinScore marks candidates scoring under the configured minimum.
	DropBelowMinScore
	// DropLessSpecific marks duplicates with a less specific language match.
	DropLessSpecific
	// DropDuplicate marks duplicates from a lower priority memory.
	DropDuplicate
	// DropTruncated marks candidates beyond the result bound.
	DropTruncated
)

func (r DropReason) String() string {
	switch r {
	case DropEmpty:
		return "empty"
	case DropNotExact:
		return "not-exact"
	case DropForeign:
		return "foreign"
	case DropEcho:
		return "source-language-echo"
	case DropBelowMinScore:
		return "below-min-score"
	case DropLessSpecific:
		return "less-specific"
	case DropDuplicate:
		return "duplicate"
	case DropTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to trace why a search returned what it did.
// Hooks run on the searching goroutine and must not block.
type SearchMonitor interface {
	Start(query string, tokens []string)
	AfterGeneration(candidates int, cancelled bool)
	Dropped(candidate core.NearString, reason DropReason)
	Finish(results []core.NearString, cancelled bool)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)              {}
func (n *noopMonitor) AfterGeneration(_ int, _ bool)           {}
func (n *noopMonitor) Dropped(_ core.NearString, _ DropReason) {}
func (n *noopMonitor) Finish(_ []core.NearString, _ bool)      {}
