// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matching

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/memory"
	"github.com/poiesic/tmatch/tokenizer"
)

const (
	// Candidates scored per pool task.
	scoreChunkSize = 64

	// How often a search waiting on its workers polls the probe.
	pollInterval = 5 * time.Millisecond

	defaultTokenCacheSize = 100_000
)

// Languages is the language pair of the text being translated.
type Languages struct {
	Source core.Language
	Target core.Language
}

// Context is everything a Finder searches with.
type Context struct {
	Languages Languages

	// Tokenizer applies to the query and to candidate source texts.
	Tokenizer tokenizer.Tokenizer

	// Sources in declaration order. Project memories always rank ahead of
	// external ones regardless of their position.
	Sources []memory.Source
}

// Finder searches translation memories for fuzzy matches.
// A Finder is safe for concurrent use; searches share its worker pool and
// token cache but nothing else.
type Finder struct {
	languages  Languages
	tokenizer  tokenizer.Tokenizer
	sources    []memory.Source
	maxResults int
	minScore   int
	pool       *ants.Pool
	tokens     *ristretto.Cache[string, []string]
	monitor    SearchMonitor
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of workers scoring candidates.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(f *Finder) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if f.pool != nil {
			f.pool.Release()
		}
		f.pool = pool
		return nil
	}
}

// WithMinScore drops candidates scoring below score.
// Default is 0, which keeps every candidate.
func WithMinScore(score int) Option {
	return func(f *Finder) error {
		if score < 0 || score > MaxScore {
			return fmt.Errorf("%w: %d", ErrInvalidMinScore, score)
		}
		f.minScore = score
		return nil
	}
}

// WithTokenCacheSize bounds the number of tokenized source texts kept
// between searches. Zero disables the cache.
// Default is 100000.
func WithTokenCacheSize(entries int64) Option {
	return func(f *Finder) error {
		if f.tokens != nil {
			f.tokens.Close()
			f.tokens = nil
		}
		if entries <= 0 {
			return nil
		}
		cache, err := newTokenCache(entries)
		if err != nil {
			return err
		}
		f.tokens = cache
		return nil
	}
}

// WithMonitor installs a SearchMonitor observing every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(f *Finder) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		f.monitor = monitor
		return nil
	}
}

func newTokenCache(entries int64) (*ristretto.Cache[string, []string], error) {
	return ristretto.NewCache(&ristretto.Config[string, []string]{
		NumCounters: entries * 10,
		MaxCost:     entries,
		BufferItems: 64,
	})
}

// NewFinder creates a Finder returning at most maxResults matches.
func NewFinder(ctx Context, maxResults int, opts ...Option) (*Finder, error) {
	if ctx.Tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if maxResults < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxResults, maxResults)
	}
	for i, src := range ctx.Sources {
		if src == nil {
			return nil, fmt.Errorf("%w: position %d", ErrNilSource, i)
		}
	}

	// Project memories first, otherwise declaration order
	sources := slices.Clone(ctx.Sources)
	slices.SortStableFunc(sources, func(a, b memory.Source) int {
		return originRank(a.Kind()) - originRank(b.Kind())
	})

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	cache, err := newTokenCache(defaultTokenCacheSize)
	if err != nil {
		pool.Release()
		return nil, err
	}

	f := &Finder{
		languages:  ctx.Languages,
		tokenizer:  ctx.Tokenizer,
		sources:    sources,
		maxResults: maxResults,
		pool:       pool,
		tokens:     cache,
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(f); optErr != nil {
			f.Release()
			return nil, optErr
		}
	}

	return f, nil
}

func originRank(kind core.OriginKind) int {
	if kind == core.OriginProject {
		return 0
	}
	return 1
}

// Sources returns the searched memories in priority order.
func (f *Finder) Sources() []memory.Source {
	return slices.Clone(f.sources)
}

// Search finds the best matches for query.
//
// In exact mode only records whose source text equals query are
// considered. Translations in a language foreign to the target are kept
// only when keepForeign is set. The probe is polled between candidates,
// always from the calling goroutine; when it fires the matches scored so
// far are returned. The result is never nil.
func (f *Finder) Search(query string, exactOnly, keepForeign bool, stop Probe) []core.NearString {
	if stop == nil {
		stop = NeverStop
	}
	if strings.TrimSpace(query) == "" {
		return []core.NearString{}
	}

	tokens := f.tokenizer.Tokenize(query)
	version := f.projectVersion()
	f.monitor.Start(query, tokens)
	dropped := func(c *candidate, reason DropReason) {
		f.monitor.Dropped(c.nearString(), reason)
	}

	s := &scoring{finder: f, query: tokens, stop: stop}
	accepted, cancelled := generateCandidates(generation{
		sources:     f.sources,
		query:       memory.Query{Text: query, Tokens: tokens, ExactOnly: exactOnly},
		languages:   f.languages,
		keepForeign: keepForeign,
		stop:        s.poll,
		accept:      s.add,
		dropped:     dropped,
	})
	s.flush()
	f.monitor.AfterGeneration(accepted, cancelled)

	scored, interrupted := s.wait()
	cancelled = cancelled || interrupted

	results := aggregate(scored, aggregation{
		languages:  f.languages,
		minScore:   f.minScore,
		maxResults: f.maxResults,
		dropped:    dropped,
	})
	if cancelled {
		f.logger.Debug("search cancelled", "query", query, "candidates", accepted, "scored", len(scored))
	}
	f.logger.Debug("search finished", "query", query, "results", len(results), "snapshot", version)
	f.monitor.Finish(results, cancelled)
	return results
}

// SearchEntry searches for the source text of a segment.
func (f *Finder) SearchEntry(entry core.SourceTextEntry, exactOnly, keepForeign bool, stop Probe) []core.NearString {
	return f.Search(entry.Key.SourceText, exactOnly, keepForeign, stop)
}

// Release releases the worker pool and the token cache.
// The Finder should not be used after calling Release.
func (f *Finder) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
	if f.tokens != nil {
		f.tokens.Close()
	}
}

// projectVersion is the version of the project memory snapshot a search
// starts from, or 0 without a project memory.
func (f *Finder) projectVersion() uint64 {
	for _, src := range f.sources {
		if pm, ok := src.(*memory.ProjectMemory); ok {
			return pm.Snapshot().Version()
		}
	}
	return 0
}

// tokenize tokenizes a candidate source text through the cache.
func (f *Finder) tokenize(text string) []string {
	if f.tokens == nil {
		return f.tokenizer.Tokenize(text)
	}
	key := f.tokenizer.Name() + "\x00" + text
	if tokens, ok := f.tokens.Get(key); ok {
		return tokens
	}
	tokens := f.tokenizer.Tokenize(text)
	f.tokens.Set(key, tokens, 1)
	return tokens
}

// scoring scores accepted candidates in chunks on the worker pool while
// generation continues. Only the goroutine running the search polls the
// probe; workers watch the stopped flag it sets.
type scoring struct {
	finder  *Finder
	query   []string
	stop    Probe
	wg      sync.WaitGroup
	chunks  [][]candidate
	current []candidate
	stopped atomic.Bool
}

// poll asks the probe whether to stop and latches the answer for the
// workers.
func (s *scoring) poll() bool {
	if s.stopped.Load() {
		return true
	}
	if s.stop() {
		s.stopped.Store(true)
		return true
	}
	return false
}

func (s *scoring) add(c candidate) {
	s.current = append(s.current, c)
	if len(s.current) == scoreChunkSize {
		s.flush()
	}
}

func (s *scoring) flush() {
	if len(s.current) == 0 {
		return
	}
	chunk := s.current
	s.current = nil
	s.chunks = append(s.chunks, chunk)

	s.wg.Add(1)
	task := func() {
		defer s.wg.Done()
		s.score(chunk)
	}
	if err := s.finder.pool.Submit(task); err != nil {
		s.finder.logger.Warn("scoring inline", "err", err)
		task()
	}
}

func (s *scoring) score(chunk []candidate) {
	for i := range chunk {
		if s.stopped.Load() {
			return
		}
		tokens := s.finder.tokenize(chunk[i].record.Source)
		chunk[i].similar = Similarity(s.query, tokens)
		chunk[i].score = Score(s.query, tokens)
	}
}

// wait blocks until every chunk is scored, polling the probe meanwhile,
// and returns the scored candidates in generation order.
func (s *scoring) wait() ([]candidate, bool) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for finished := false; !finished; {
		select {
		case <-done:
			finished = true
		case <-ticker.C:
			s.poll()
		}
	}

	var out []candidate
	for _, chunk := range s.chunks {
		for _, c := range chunk {
			if c.score != unscored {
				out = append(out, c)
			}
		}
	}
	return out, s.stopped.Load()
}
