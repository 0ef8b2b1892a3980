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

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/memory"
	"github.com/poiesic/tmatch/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of records written per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      500,
		ReportInterval: 1000,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Importer stores external memories in a repository.
type Importer struct {
	repo     storage.MemoryRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithProgress reports progress to w.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(i *Importer) error {
		if w == nil {
			w = io.Discard
		}
		i.progress = w
		return nil
	}
}

// NewImporter creates a new importer. A nil config uses DefaultConfig.
func NewImporter(repo storage.MemoryRepository, config *Config, opts ...Option) (*Importer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries <= 0 {
		return nil, ErrInvalidMaxAttempts
	}

	i := &Importer{
		repo:     repo,
		config:   config,
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Run stores mem under its ID, replacing any memory already stored with
// that ID. The descriptor is written last, so an interrupted import leaves
// no descriptor behind and is not listed.
func (i *Importer) Run(ctx context.Context, mem *memory.ExternalMemory) (*core.MemoryInfo, error) {
	if mem == nil {
		return nil, ErrMemoryRequired
	}

	id := mem.ID()
	position := 0
	previous, err := i.repo.GetMemoryInfo(ctx, id)
	switch {
	case err == nil:
		position = previous.Position
		if err := i.repo.DeleteMemory(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to replace memory %q: %w", id, err)
		}
	case errors.Is(err, storage.ErrNotFound):
		// An interrupted import leaves records without a descriptor
		purged, err := i.repo.DeleteRecords(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to clear memory %q: %w", id, err)
		}
		if purged > 0 {
			i.logger.Warn("discarded records of an interrupted import", "memory", id, "records", purged)
		}
	default:
		return nil, err
	}

	records := mem.Records()
	total := len(records)
	batchSize := max(i.config.BatchSize, 1)
	i.logger.Info("importing memory", "memory", id, "records", total, "batchSize", batchSize)

	tracker := NewProgressTracker(i.progress, id, total, i.config.ReportInterval)
	tracker.Start()

	writer := NewBatchWriter(i.repo, id, i.config.MaxRetries, i.config.RetryDelay)
	for batch := range slices.Chunk(records, batchSize) {
		if err := ctx.Err(); err != nil {
			tracker.Finish()
			return nil, err
		}
		// The memory's slice is shared and read-only
		if err := writer.Write(ctx, slices.Clone(batch)); err != nil {
			tracker.Finish()
			return nil, err
		}
		tracker.Increment(len(batch))
	}
	tracker.Finish()

	// Identical records collapse onto one ID
	stored, err := i.repo.CountRecords(ctx, id)
	if err != nil {
		return nil, err
	}

	source, target := mem.Languages()
	info := &core.MemoryInfo{
		Id:             id,
		Kind:           core.OriginExternal,
		SourceLanguage: source,
		TargetLanguage: target,
		Path:           mem.Path(),
		Position:       position,
		RecordCount:    stored,
	}
	if err := i.repo.SaveMemoryInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("failed to save memory %q: %w", id, err)
	}

	elapsed := tracker.Elapsed()
	i.logger.Info("memory imported", "memory", id, "records", stored, "elapsed", elapsed.Round(time.Millisecond))
	return info, nil
}
