package memory

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/tmatch/core"
)

// ProjectMemory is the project's own translation memory.
//
// Every source text has at most one default translation and any number of
// alternative translations, each bound to the EntryKey of the segment it
// was confirmed for. Writers are serialized and publish a new Snapshot on
// every change; published snapshots are never modified.
type ProjectMemory struct {
	id      string
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

// Snapshot is an immutable view of a ProjectMemory. It implements Source.
type Snapshot struct {
	id         string
	sourceLang core.Language
	targetLang core.Language
	version    uint64
	entries    map[string]*projectEntry
	order      []string // source texts in first-insertion order
	size       int
}

type projectEntry struct {
	def          *core.TranslationRecord
	alternatives []core.TranslationRecord
}

var (
	_ Source = (*Snapshot)(nil)
	_ Source = (*ProjectMemory)(nil)
)

// ProjectOption configures a ProjectMemory.
type ProjectOption func(*ProjectMemory)

// WithProjectLogger sets a custom logger.
// Default is slog.Default().
func WithProjectLogger(logger *slog.Logger) ProjectOption {
	return func(m *ProjectMemory) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewProjectMemory creates an empty project memory for a language pair.
func NewProjectMemory(id string, sourceLang, targetLang core.Language, opts ...ProjectOption) (*ProjectMemory, error) {
	if id == "" {
		return nil, ErrMemoryIDRequired
	}
	m := &ProjectMemory{
		id:     id,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current.Store(&Snapshot{
		id:         id,
		sourceLang: sourceLang,
		targetLang: targetLang,
		entries:    make(map[string]*projectEntry),
	})
	return m, nil
}

// ID returns the memory ID.
func (m *ProjectMemory) ID() string {
	return m.id
}

// Kind returns core.OriginProject.
func (m *ProjectMemory) Kind() core.OriginKind {
	return core.OriginProject
}

// Languages returns the project language pair.
func (m *ProjectMemory) Languages() (core.Language, core.Language) {
	return m.Snapshot().Languages()
}

// RecordsNear reads from the snapshot current at the time of the call.
// Changes published while the sequence is consumed are not observed.
func (m *ProjectMemory) RecordsNear(q Query) iter.Seq[core.TranslationRecord] {
	return m.Snapshot().RecordsNear(q)
}

// Snapshot returns the current immutable view.
func (m *ProjectMemory) Snapshot() *Snapshot {
	return m.current.Load()
}

// Len returns the number of translations, defaults and alternatives.
func (m *ProjectMemory) Len() int {
	return m.Snapshot().size
}

// Records returns every translation in insertion order.
// For each source text the default comes first, then its alternatives.
func (m *ProjectMemory) Records() []core.TranslationRecord {
	snap := m.Snapshot()
	out := make([]core.TranslationRecord, 0, snap.size)
	for rec := range snap.all() {
		out = append(out, rec)
	}
	return out
}

// Load adds records in bulk and publishes a single snapshot.
// Records with an Alternative key become alternatives, the rest defaults.
// Invalid records are skipped and counted in the log.
func (m *ProjectMemory) Load(records ...core.TranslationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.Snapshot().clone()
	skipped := 0
	for _, rec := range records {
		if err := core.ValidateTranslationRecord(&rec); err != nil {
			skipped++
			continue
		}
		if rec.Alternative != nil {
			key := *rec.Alternative
			next.putAlternative(m.id, key, rec)
		} else {
			next.putDefault(m.id, rec)
		}
	}
	m.current.Store(next)

	if skipped > 0 {
		m.logger.Warn("skipped invalid project translations", "memory", m.id, "skipped", skipped)
	}
}

// SetDefault stores rec as the default translation of rec.Source and returns
// the stored record with its ID populated.
func (m *ProjectMemory) SetDefault(rec core.TranslationRecord) (core.TranslationRecord, error) {
	rec.Alternative = nil
	if err := core.ValidateTranslationRecord(&rec); err != nil {
		return core.TranslationRecord{}, err
	}
	stampChange(&rec)

	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.Snapshot().clone()
	stored := next.putDefault(m.id, rec)
	m.current.Store(next)
	return stored, nil
}

// SetAlternative stores rec as the alternative translation for key.
func (m *ProjectMemory) SetAlternative(key core.EntryKey, rec core.TranslationRecord) (core.TranslationRecord, error) {
	if key.SourceText == "" {
		key.SourceText = rec.Source
	}
	if rec.Source == "" {
		rec.Source = key.SourceText
	}
	if key.SourceText != rec.Source {
		return core.TranslationRecord{}, ErrEntryKeyRequired
	}
	if err := core.ValidateTranslationRecord(&rec); err != nil {
		return core.TranslationRecord{}, err
	}
	stampChange(&rec)

	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.Snapshot().clone()
	stored := next.putAlternative(m.id, key, rec)
	m.current.Store(next)
	return stored, nil
}

// Remove deletes a translation. A nil key removes the default translation,
// otherwise the alternative bound to key.
func (m *ProjectMemory) Remove(source string, key *core.EntryKey) (core.TranslationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.Snapshot().clone()
	removed, ok := next.remove(source, key)
	if !ok {
		return core.TranslationRecord{}, ErrNotFound
	}
	m.current.Store(next)
	return removed, nil
}

func stampChange(rec *core.TranslationRecord) {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.ChangedAt = now
}

// clone copies the snapshot's top-level index. Entries are copied lazily by
// the put and remove helpers before they are modified.
func (s *Snapshot) clone() *Snapshot {
	return &Snapshot{
		id:         s.id,
		sourceLang: s.sourceLang,
		targetLang: s.targetLang,
		version:    s.version + 1,
		entries:    maps.Clone(s.entries),
		order:      s.order,
		size:       s.size,
	}
}

// entryForWrite returns a private copy of the entry for source, creating it
// when absent.
func (s *Snapshot) entryForWrite(source string) *projectEntry {
	old, ok := s.entries[source]
	if !ok {
		e := &projectEntry{}
		s.entries[source] = e
		s.order = append(s.order, source)
		return e
	}
	e := &projectEntry{
		def:          old.def,
		alternatives: slices.Clone(old.alternatives),
	}
	s.entries[source] = e
	return e
}

func (s *Snapshot) putDefault(memoryID string, rec core.TranslationRecord) core.TranslationRecord {
	rec.Alternative = nil
	rec.Id = core.RecordID(memoryID, &rec)
	e := s.entryForWrite(rec.Source)
	if e.def == nil {
		s.size++
	}
	e.def = &rec
	return rec
}

func (s *Snapshot) putAlternative(memoryID string, key core.EntryKey, rec core.TranslationRecord) core.TranslationRecord {
	rec.Alternative = &key
	rec.Id = core.RecordID(memoryID, &rec)
	e := s.entryForWrite(rec.Source)
	for i := range e.alternatives {
		if *e.alternatives[i].Alternative == key {
			e.alternatives[i] = rec
			return rec
		}
	}
	e.alternatives = append(e.alternatives, rec)
	s.size++
	return rec
}

func (s *Snapshot) remove(source string, key *core.EntryKey) (core.TranslationRecord, bool) {
	old, ok := s.entries[source]
	if !ok {
		return core.TranslationRecord{}, false
	}

	var removed core.TranslationRecord
	if key == nil {
		if old.def == nil {
			return core.TranslationRecord{}, false
		}
		removed = *old.def
		e := s.entryForWrite(source)
		e.def = nil
	} else {
		idx := slices.IndexFunc(old.alternatives, func(r core.TranslationRecord) bool {
			return *r.Alternative == *key
		})
		if idx < 0 {
			return core.TranslationRecord{}, false
		}
		removed = old.alternatives[idx]
		e := s.entryForWrite(source)
		e.alternatives = slices.Delete(e.alternatives, idx, idx+1)
	}
	s.size--

	if e := s.entries[source]; e.def == nil && len(e.alternatives) == 0 {
		delete(s.entries, source)
		s.order = slices.DeleteFunc(slices.Clone(s.order), func(src string) bool {
			return src == source
		})
	}
	return removed, true
}

// ID returns the memory ID.
func (s *Snapshot) ID() string {
	return s.id
}

// Kind returns core.OriginProject.
func (s *Snapshot) Kind() core.OriginKind {
	return core.OriginProject
}

// Languages returns the project language pair.
func (s *Snapshot) Languages() (core.Language, core.Language) {
	return s.sourceLang, s.targetLang
}

// Version increases with every published change.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Default returns the default translation of source.
func (s *Snapshot) Default(source string) (core.TranslationRecord, bool) {
	e, ok := s.entries[source]
	if !ok || e.def == nil {
		return core.TranslationRecord{}, false
	}
	return *e.def, true
}

// Alternative returns the alternative translation bound to key.
func (s *Snapshot) Alternative(key core.EntryKey) (core.TranslationRecord, bool) {
	e, ok := s.entries[key.SourceText]
	if !ok {
		return core.TranslationRecord{}, false
	}
	for _, rec := range e.alternatives {
		if *rec.Alternative == key {
			return rec, true
		}
	}
	return core.TranslationRecord{}, false
}

// RecordsNear implements Source.
func (s *Snapshot) RecordsNear(q Query) iter.Seq[core.TranslationRecord] {
	if q.ExactOnly {
		return func(yield func(core.TranslationRecord) bool) {
			if e, ok := s.entries[q.Text]; ok {
				e.each(yield)
			}
		}
	}
	return s.all()
}

func (s *Snapshot) all() iter.Seq[core.TranslationRecord] {
	return func(yield func(core.TranslationRecord) bool) {
		for _, source := range s.order {
			if !s.entries[source].each(yield) {
				return
			}
		}
	}
}

func (e *projectEntry) each(yield func(core.TranslationRecord) bool) bool {
	if e.def != nil && !yield(*e.def) {
		return false
	}
	for _, rec := range e.alternatives {
		if !yield(rec) {
			return false
		}
	}
	return true
}
