package memory

import (
	"iter"
	"log/slog"

	"github.com/poiesic/tmatch/core"
)

// ExternalMemory is an immutable translation memory loaded from a file.
// It declares one nominal language pair; individual records may override it.
type ExternalMemory struct {
	id         string
	path       string
	sourceLang core.Language
	targetLang core.Language
	records    []core.TranslationRecord
	bySource   map[string][]int
}

var _ Source = (*ExternalMemory)(nil)

// ExternalOption configures an ExternalMemory.
type ExternalOption func(*externalOptions)

type externalOptions struct {
	path   string
	logger *slog.Logger
}

// WithPath records the file the memory was loaded from.
func WithPath(path string) ExternalOption {
	return func(o *externalOptions) {
		o.path = path
	}
}

// WithExternalLogger sets a custom logger.
// Default is slog.Default().
func WithExternalLogger(logger *slog.Logger) ExternalOption {
	return func(o *externalOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// NewExternalMemory creates an external memory from already parsed records.
// Malformed records are dropped here so that searches never see them.
// The records slice is copied.
func NewExternalMemory(id string, sourceLang, targetLang core.Language, records []core.TranslationRecord, opts ...ExternalOption) (*ExternalMemory, error) {
	if id == "" {
		return nil, ErrMemoryIDRequired
	}
	options := &externalOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	m := &ExternalMemory{
		id:         id,
		path:       options.path,
		sourceLang: sourceLang,
		targetLang: targetLang,
		records:    make([]core.TranslationRecord, 0, len(records)),
		bySource:   make(map[string][]int),
	}

	dropped := 0
	for _, rec := range records {
		if err := core.ValidateTranslationRecord(&rec); err != nil {
			options.logger.Debug("dropping malformed record", "memory", id, "source", rec.Source, "err", err)
			dropped++
			continue
		}
		if rec.Id == 0 {
			rec.Id = core.RecordID(id, &rec)
		}
		m.bySource[rec.Source] = append(m.bySource[rec.Source], len(m.records))
		m.records = append(m.records, rec)
	}

	if dropped > 0 {
		options.logger.Warn("dropped malformed records", "memory", id, "dropped", dropped, "kept", len(m.records))
	}

	return m, nil
}

// ID returns the memory ID.
func (m *ExternalMemory) ID() string {
	return m.id
}

// Path returns the file the memory was loaded from, if known.
func (m *ExternalMemory) Path() string {
	return m.path
}

// Kind returns core.OriginExternal.
func (m *ExternalMemory) Kind() core.OriginKind {
	return core.OriginExternal
}

// Languages returns the nominal language pair.
func (m *ExternalMemory) Languages() (core.Language, core.Language) {
	return m.sourceLang, m.targetLang
}

// Len returns the number of records.
func (m *ExternalMemory) Len() int {
	return len(m.records)
}

// Records returns the records in load order. The slice must not be modified.
func (m *ExternalMemory) Records() []core.TranslationRecord {
	return m.records
}

// RecordsNear implements Source.
func (m *ExternalMemory) RecordsNear(q Query) iter.Seq[core.TranslationRecord] {
	return func(yield func(core.TranslationRecord) bool) {
		if q.ExactOnly {
			for _, idx := range m.bySource[q.Text] {
				if !yield(m.records[idx]) {
					return
				}
			}
			return
		}
		for _, rec := range m.records {
			if !yield(rec) {
				return
			}
		}
	}
}
