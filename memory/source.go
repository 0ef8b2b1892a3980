package memory

import (
	"iter"

	"github.com/poiesic/tmatch/core"
)

// Query describes what a search is looking for.
type Query struct {
	Text      string
	Tokens    []string
	ExactOnly bool
}

// Source is a read-only provider of translation records.
// Implementations must be safe for concurrent use and must not block.
type Source interface {
	// ID identifies the memory in results.
	ID() string

	// Kind reports whether this is the project memory or an external one.
	Kind() core.OriginKind

	// Languages returns the nominal languages of records that declare none.
	Languages() (source, target core.Language)

	// RecordsNear yields the records worth scoring for q, in a stable order.
	// In exact mode a source may restrict output to records whose source
	// text equals q.Text. Consumers may stop early.
	RecordsNear(q Query) iter.Seq[core.TranslationRecord]
}
