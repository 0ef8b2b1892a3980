package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/storage"
)

// BatchWriter appends batches of records to one memory of a repository.
type BatchWriter struct {
	repo           storage.MemoryRepository
	memoryID       string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchWriter creates a new batch writer.
// maxRetries: maximum number of attempts per batch
// retryBaseDelay: base delay for exponential backoff
func NewBatchWriter(repo storage.MemoryRepository, memoryID string, maxRetries int, retryBaseDelay time.Duration) *BatchWriter {
	return &BatchWriter{
		repo:           repo,
		memoryID:       memoryID,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Write stores a batch of records, retrying transient failures.
func (bw *BatchWriter) Write(ctx context.Context, records []core.TranslationRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := RetryWithBackoff(ctx, func() error {
		err := bw.repo.AppendRecords(ctx, bw.memoryID, records...)
		if isPermanent(err) {
			return Permanent(err)
		}
		return err
	}, bw.maxRetries, bw.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to write %d records to %q: %w", len(records), bw.memoryID, err)
	}
	return nil
}

// isPermanent reports errors that a retry would only repeat.
func isPermanent(err error) bool {
	return errors.Is(err, storage.ErrInvalidQuery) ||
		errors.Is(err, storage.ErrStorageClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
