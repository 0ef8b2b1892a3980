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

package tmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/importer"
	"github.com/poiesic/tmatch/matching"
	"github.com/poiesic/tmatch/memory"
	"github.com/poiesic/tmatch/memory/tmx"
	"github.com/poiesic/tmatch/storage"
	"github.com/poiesic/tmatch/storage/badger"
	"github.com/poiesic/tmatch/tokenizer"
)

// ProjectMemoryID is the ID of the project's own translation memory.
const ProjectMemoryID = "project"

// ProjectProperties describe the text being translated.
type ProjectProperties struct {
	SourceLanguage core.Language
	TargetLanguage core.Language

	// SupportDefaultTranslations allows confirmed translations to become the
	// default for every occurrence of a source text. When false every
	// confirmation is an alternative bound to its entry.
	SupportDefaultTranslations bool
}

// Project owns the persisted memories of one translation project and hands
// out Finders over them.
type Project struct {
	props     ProjectProperties
	backend   *badger.Backend
	repo      storage.MemoryRepository
	project   *memory.ProjectMemory
	tokenizer tokenizer.Tokenizer
	importCfg *importer.Config
	logger    *slog.Logger

	// confirmMu keeps the project memory and the repository in step
	confirmMu sync.Mutex

	mu        sync.RWMutex
	externals []external
}

type external struct {
	position int
	mem      *memory.ExternalMemory
}

// ProjectOption configures a Project.
type ProjectOption func(*projectOptions)

type projectOptions struct {
	logger      *slog.Logger
	inMemory    bool
	backendOpts []badger.BackendOption
	importCfg   *importer.Config
	tokenizers  *tokenizer.Table
	tokenizer   tokenizer.Tokenizer
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ProjectOption {
	return func(o *projectOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithInMemory keeps every memory in RAM. Nothing is written to disk.
func WithInMemory() ProjectOption {
	return func(o *projectOptions) {
		o.inMemory = true
	}
}

// WithBackendOptions passes options to the storage backend.
func WithBackendOptions(opts ...badger.BackendOption) ProjectOption {
	return func(o *projectOptions) {
		o.backendOpts = append(o.backendOpts, opts...)
	}
}

// WithImportConfig sets the batching and retry settings used by imports.
// Default is importer.DefaultConfig().
func WithImportConfig(cfg *importer.Config) ProjectOption {
	return func(o *projectOptions) {
		o.importCfg = cfg
	}
}

// WithTokenizerTable picks the tokenizer for the source language from table.
// Default is tokenizer.NewTable().
func WithTokenizerTable(table *tokenizer.Table) ProjectOption {
	return func(o *projectOptions) {
		o.tokenizers = table
	}
}

// WithTokenizer forces a tokenizer regardless of the source language.
func WithTokenizer(tok tokenizer.Tokenizer) ProjectOption {
	return func(o *projectOptions) {
		o.tokenizer = tok
	}
}

// OpenProject opens or creates the project stored in dir and loads every
// memory it holds.
func OpenProject(ctx context.Context, dir string, props ProjectProperties, opts ...ProjectOption) (*Project, error) {
	if err := validateProperties(props); err != nil {
		return nil, err
	}

	options := &projectOptions{
		logger:    slog.Default(),
		importCfg: importer.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	tok := options.tokenizer
	if tok == nil {
		table := options.tokenizers
		if table == nil {
			table = tokenizer.NewTable()
		}
		tok = table.For(props.SourceLanguage)
	}

	backendOpts := append([]badger.BackendOption{badger.WithBackendLogger(options.logger)}, options.backendOpts...)
	backend, err := badger.OpenBackend(dir, options.inMemory, backendOpts...)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewMemoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pm, err := memory.NewProjectMemory(ProjectMemoryID, props.SourceLanguage, props.TargetLanguage,
		memory.WithProjectLogger(options.logger))
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	p := &Project{
		props:     props,
		backend:   backend,
		repo:      repo,
		project:   pm,
		tokenizer: tok,
		importCfg: options.importCfg,
		logger:    options.logger,
	}
	if err := p.load(ctx); err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	p.logger.Info("project opened", "dir", dir, "source", props.SourceLanguage, "target", props.TargetLanguage,
		"tokenizer", tok.Name(), "projectRecords", pm.Len(), "externalMemories", len(p.externals))
	return p, nil
}

func validateProperties(props ProjectProperties) error {
	if err := core.ValidateLanguage(props.SourceLanguage, false); err != nil {
		return fmt.Errorf("%w: source language: %w", ErrInvalidProperties, err)
	}
	if err := core.ValidateLanguage(props.TargetLanguage, false); err != nil {
		return fmt.Errorf("%w: target language: %w", ErrInvalidProperties, err)
	}
	return nil
}

// load reads the project descriptor and records, then every external memory.
func (p *Project) load(ctx context.Context) error {
	_, err := p.repo.GetMemoryInfo(ctx, ProjectMemoryID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		info := &core.MemoryInfo{
			Id:             ProjectMemoryID,
			Kind:           core.OriginProject,
			SourceLanguage: p.props.SourceLanguage,
			TargetLanguage: p.props.TargetLanguage,
		}
		if err := p.repo.SaveMemoryInfo(ctx, info); err != nil {
			return fmt.Errorf("failed to create project memory: %w", err)
		}
	case err != nil:
		return err
	}

	records, err := p.repo.LoadRecords(ctx, ProjectMemoryID)
	if err != nil {
		return fmt.Errorf("failed to load project memory: %w", err)
	}
	p.project.Load(records...)

	infos, err := p.repo.ListMemories(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if info.Kind != core.OriginExternal {
			continue
		}
		records, err := p.repo.LoadRecords(ctx, info.Id)
		if err != nil {
			return fmt.Errorf("failed to load memory %q: %w", info.Id, err)
		}
		mem, err := memory.NewExternalMemory(info.Id, info.SourceLanguage, info.TargetLanguage, records,
			memory.WithPath(info.Path), memory.WithExternalLogger(p.logger))
		if err != nil {
			return err
		}
		p.externals = append(p.externals, external{position: info.Position, mem: mem})
	}
	return nil
}

// Close releases the repository and the storage backend.
func (p *Project) Close() error {
	if err := p.repo.Close(); err != nil {
		p.logger.Error("error closing memory repository", "err", err)
		return err
	}
	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Properties returns the project's language settings.
func (p *Project) Properties() ProjectProperties {
	return p.props
}

// ProjectMemory returns the project's own translation memory.
func (p *Project) ProjectMemory() *memory.ProjectMemory {
	return p.project
}

// Tokenizer returns the tokenizer Finders use.
func (p *Project) Tokenizer() tokenizer.Tokenizer {
	return p.tokenizer
}

// Confirm records translation for the entry identified by key and persists
// it. With asDefault, and when the project supports default translations,
// the translation becomes the default for the source text; otherwise it is
// an alternative bound to key.
func (p *Project) Confirm(ctx context.Context, key core.EntryKey, translation string, asDefault bool) (core.TranslationRecord, error) {
	if translation == "" {
		return core.TranslationRecord{}, ErrEmptyTranslation
	}
	rec := core.TranslationRecord{
		Source:         key.SourceText,
		Translation:    translation,
		SourceLanguage: p.props.SourceLanguage,
		TargetLanguage: p.props.TargetLanguage,
	}
	asDefault = asDefault && p.props.SupportDefaultTranslations

	p.confirmMu.Lock()
	defer p.confirmMu.Unlock()

	snap := p.project.Snapshot()
	var (
		previous core.TranslationRecord
		replaced bool
		stored   core.TranslationRecord
		err      error
	)
	if asDefault {
		previous, replaced = snap.Default(key.SourceText)
		stored, err = p.project.SetDefault(rec)
	} else {
		previous, replaced = snap.Alternative(key)
		stored, err = p.project.SetAlternative(key, rec)
	}
	if err != nil {
		return core.TranslationRecord{}, err
	}

	if err := p.repo.AppendRecords(ctx, ProjectMemoryID, stored); err != nil {
		p.rollback(stored, previous, replaced)
		return core.TranslationRecord{}, fmt.Errorf("failed to persist translation: %w", err)
	}
	if replaced && previous.Id != stored.Id {
		err := p.repo.DeleteRecord(ctx, ProjectMemoryID, previous.Id)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("failed to delete superseded translation", "id", previous.Id, "err", err)
		}
	}

	p.logger.Debug("translation confirmed", "source", stored.Source, "default", stored.Alternative == nil)
	return stored, nil
}

func (p *Project) rollback(stored, previous core.TranslationRecord, replaced bool) {
	if replaced {
		p.project.Load(previous)
		return
	}
	if _, err := p.project.Remove(stored.Source, stored.Alternative); err != nil {
		p.logger.Warn("failed to roll back translation", "source", stored.Source, "err", err)
	}
}

// ImportTMX loads the TMX file at path and stores it as an external memory.
// An empty id defaults to the file name without extension. A memory already stored
// under the same id is replaced and keeps its position.
func (p *Project) ImportTMX(ctx context.Context, path, id string, progress io.Writer) (*core.MemoryInfo, error) {
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if isReserved(id) {
		return nil, fmt.Errorf("%w: %q", ErrReservedMemoryID, id)
	}
	mem, err := tmx.Load(path, tmx.Options{
		ID:             id,
		SourceLanguage: p.props.SourceLanguage,
		TargetLanguage: p.props.TargetLanguage,
		Logger:         p.logger,
	})
	if err != nil {
		return nil, err
	}
	return p.ImportMemory(ctx, mem, progress)
}

// ImportMemory stores an already parsed external memory.
func (p *Project) ImportMemory(ctx context.Context, mem *memory.ExternalMemory, progress io.Writer) (*core.MemoryInfo, error) {
	if mem == nil {
		return nil, importer.ErrMemoryRequired
	}
	if isReserved(mem.ID()) {
		return nil, fmt.Errorf("%w: %q", ErrReservedMemoryID, mem.ID())
	}

	imp, err := importer.NewImporter(p.repo, p.importCfg, importer.WithLogger(p.logger), importer.WithProgress(progress))
	if err != nil {
		return nil, err
	}
	info, err := imp.Run(ctx, mem)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.externals = slices.DeleteFunc(p.externals, func(e external) bool {
		return e.mem.ID() == info.Id
	})
	p.externals = append(p.externals, external{position: info.Position, mem: mem})
	slices.SortStableFunc(p.externals, func(a, b external) int {
		return a.position - b.position
	})
	return info, nil
}

func isReserved(id string) bool {
	return strings.EqualFold(id, ProjectMemoryID)
}

// RemoveMemory deletes an external memory and its records.
func (p *Project) RemoveMemory(ctx context.Context, id string) error {
	if isReserved(id) {
		return fmt.Errorf("%w: %q", ErrReservedMemoryID, id)
	}
	if err := p.repo.DeleteMemory(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.externals = slices.DeleteFunc(p.externals, func(e external) bool {
		return e.mem.ID() == id
	})
	p.logger.Info("memory removed", "memory", id)
	return nil
}

// Memories lists the stored memories in declaration order, the project
// memory first.
func (p *Project) Memories(ctx context.Context) ([]*core.MemoryInfo, error) {
	infos, err := p.repo.ListMemories(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Id == ProjectMemoryID {
			info.RecordCount = p.project.Len()
		}
	}
	slices.SortStableFunc(infos, func(a, b *core.MemoryInfo) int {
		return int(a.Kind) - int(b.Kind)
	})
	return infos, nil
}

// NewFinder creates a Finder over the project memory and every external
// memory loaded when it is called. Memories imported later are not seen.
// Callers must Release the Finder.
func (p *Project) NewFinder(maxResults int, opts ...matching.Option) (*matching.Finder, error) {
	p.mu.RLock()
	sources := make([]memory.Source, 0, len(p.externals)+1)
	sources = append(sources, p.project)
	for _, e := range p.externals {
		sources = append(sources, e.mem)
	}
	p.mu.RUnlock()

	return matching.NewFinder(matching.Context{
		Languages: matching.Languages{
			Source: p.props.SourceLanguage,
			Target: p.props.TargetLanguage,
		},
		Tokenizer: p.tokenizer,
		Sources:   sources,
	}, maxResults, opts...)
}
