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

package storage

import (
	"context"

	"github.com/poiesic/tmatch/core"
)

// MemoryRepository persists translation memories: their descriptors and
// their records. Implementations must be thread-safe and support concurrent
// access.
type MemoryRepository interface {
	// SaveMemoryInfo creates or replaces a memory descriptor.
	// On first save a zero Position is assigned from a sequence so that
	// ListMemories reports memories in declaration order. Later saves keep
	// the stored Position.
	SaveMemoryInfo(ctx context.Context, info *core.MemoryInfo) error

	// GetMemoryInfo retrieves a memory descriptor.
	// Returns ErrNotFound if the memory doesn't exist.
	GetMemoryInfo(ctx context.Context, memoryID string) (*core.MemoryInfo, error)

	// ListMemories returns every memory descriptor ordered by Position.
	ListMemories(ctx context.Context) ([]*core.MemoryInfo, error)

	// AppendRecords stores records after the memory's existing records.
	// Records with a zero ID get core.RecordID. A record whose ID is already
	// stored replaces the stored one in place.
	AppendRecords(ctx context.Context, memoryID string, records ...core.TranslationRecord) error

	// DeleteRecord removes a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteRecord(ctx context.Context, memoryID string, id core.ID) error

	// LoadRecords returns a memory's records in insertion order.
	LoadRecords(ctx context.Context, memoryID string) ([]core.TranslationRecord, error)

	// CountRecords returns the number of records stored for a memory.
	CountRecords(ctx context.Context, memoryID string) (int, error)

	// DeleteMemory removes a memory descriptor and all of its records.
	// Returns ErrNotFound if the memory doesn't exist.
	DeleteMemory(ctx context.Context, memoryID string) error

	// DeleteRecords removes every record stored for a memory, including
	// records an interrupted import left without a descriptor. The
	// descriptor is kept. Returns the number of records removed.
	DeleteRecords(ctx context.Context, memoryID string) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
