package importer

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/memory"
	"github.com/poiesic/tmatch/storage"
	"github.com/poiesic/tmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) storage.MemoryRepository {
	t.Helper()
	repo, backend, err := badger.NewInMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func newExternal(t *testing.T, id string, n int) *memory.ExternalMemory {
	t.Helper()
	records := make([]core.TranslationRecord, n)
	for i := range records {
		records[i] = core.TranslationRecord{
			Source:         "source " + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Translation:    "translation",
			TargetLanguage: "fr",
		}
	}
	mem, err := memory.NewExternalMemory(id, "en", "fr", records, memory.WithPath("/tm/"+id+".tmx"))
	require.NoError(t, err)
	return mem
}

// flakyRepository fails the first AppendRecords calls.
type flakyRepository struct {
	storage.MemoryRepository
	failures atomic.Int32
	err      error
	calls    atomic.Int32
}

func (r *flakyRepository) AppendRecords(ctx context.Context, memoryID string, records ...core.TranslationRecord) error {
	r.calls.Add(1)
	if r.failures.Add(-1) >= 0 {
		return r.err
	}
	return r.MemoryRepository.AppendRecords(ctx, memoryID, records...)
}

// interruptingRepository cancels the import after its first stored batch.
type interruptingRepository struct {
	storage.MemoryRepository
	cancel context.CancelFunc
}

func (r *interruptingRepository) AppendRecords(ctx context.Context, memoryID string, records ...core.TranslationRecord) error {
	err := r.MemoryRepository.AppendRecords(ctx, memoryID, records...)
	r.cancel()
	return err
}

func TestNewImporter(t *testing.T) {
	repo := newRepository(t)

	t.Run("defaults", func(t *testing.T) {
		imp, err := NewImporter(repo, nil, WithLogger(nil), WithProgress(nil))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), imp.config)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewImporter(nil, nil)
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("invalid retries", func(t *testing.T) {
		_, err := NewImporter(repo, &Config{BatchSize: 10, MaxRetries: 0})
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestImporter_Run(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	var progress bytes.Buffer

	imp, err := NewImporter(repo, &Config{BatchSize: 7, ReportInterval: 10, MaxRetries: 2}, WithProgress(&progress))
	require.NoError(t, err)

	info, err := imp.Run(ctx, newExternal(t, "glossary", 50))
	require.NoError(t, err)
	assert.Equal(t, "glossary", info.Id)
	assert.Equal(t, core.OriginExternal, info.Kind)
	assert.Equal(t, 50, info.RecordCount)
	assert.Equal(t, "/tm/glossary.tmx", info.Path)
	assert.Equal(t, core.Language("en"), info.SourceLanguage)

	records, err := repo.LoadRecords(ctx, "glossary")
	require.NoError(t, err)
	require.Len(t, records, 50)
	assert.Equal(t, "source aa", records[0].Source)

	assert.Contains(t, progress.String(), "glossary: 50/50")
}

func TestImporter_RunReplacesAndKeepsPosition(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	imp, err := NewImporter(repo, nil)
	require.NoError(t, err)

	first, err := imp.Run(ctx, newExternal(t, "a", 10))
	require.NoError(t, err)
	_, err = imp.Run(ctx, newExternal(t, "b", 1))
	require.NoError(t, err)

	again, err := imp.Run(ctx, newExternal(t, "a", 3))
	require.NoError(t, err)
	assert.Equal(t, first.Position, again.Position)
	assert.Equal(t, 3, again.RecordCount)

	infos, err := repo.ListMemories(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Id)
	assert.Equal(t, "b", infos[1].Id)
}

func TestImporter_RetriesTransientFailures(t *testing.T) {
	flaky := &flakyRepository{MemoryRepository: newRepository(t), err: errors.New("conflict")}
	flaky.failures.Store(2)

	imp, err := NewImporter(flaky, &Config{BatchSize: 100, MaxRetries: 3})
	require.NoError(t, err)

	info, err := imp.Run(context.Background(), newExternal(t, "tm", 5))
	require.NoError(t, err)
	assert.Equal(t, 5, info.RecordCount)
	assert.Equal(t, int32(3), flaky.calls.Load())
}

func TestImporter_PermanentFailure(t *testing.T) {
	flaky := &flakyRepository{MemoryRepository: newRepository(t), err: storage.ErrStorageClosed}
	flaky.failures.Store(10)

	imp, err := NewImporter(flaky, &Config{BatchSize: 100, MaxRetries: 5})
	require.NoError(t, err)

	_, err = imp.Run(context.Background(), newExternal(t, "tm", 5))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.Equal(t, int32(1), flaky.calls.Load())

	_, err = flaky.GetMemoryInfo(context.Background(), "tm")
	assert.ErrorIs(t, err, storage.ErrNotFound, "failed import must not be listed")
}

func TestImporter_Cancelled(t *testing.T) {
	repo := newRepository(t)
	imp, err := NewImporter(repo, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = imp.Run(ctx, newExternal(t, "tm", 5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImporter_RunDiscardsInterruptedImport(t *testing.T) {
	repo := newRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted, err := NewImporter(&interruptingRepository{MemoryRepository: repo, cancel: cancel}, &Config{BatchSize: 4, MaxRetries: 1})
	require.NoError(t, err)
	_, err = interrupted.Run(ctx, newExternal(t, "tm", 10))
	require.ErrorIs(t, err, context.Canceled)

	leftover, err := repo.CountRecords(context.Background(), "tm")
	require.NoError(t, err)
	require.Equal(t, 4, leftover)
	_, err = repo.GetMemoryInfo(context.Background(), "tm")
	require.ErrorIs(t, err, storage.ErrNotFound)

	imp, err := NewImporter(repo, nil)
	require.NoError(t, err)
	mem, err := memory.NewExternalMemory("tm", "en", "fr", []core.TranslationRecord{
		{Source: "only", Translation: "seul", TargetLanguage: "fr"},
	})
	require.NoError(t, err)

	info, err := imp.Run(context.Background(), mem)
	require.NoError(t, err)
	assert.Equal(t, 1, info.RecordCount)

	records, err := repo.LoadRecords(context.Background(), "tm")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "only", records[0].Source)
	assert.Equal(t, "seul", records[0].Translation)
}

func TestImporter_NilMemory(t *testing.T) {
	imp, err := NewImporter(newRepository(t), nil)
	require.NoError(t, err)

	_, err = imp.Run(context.Background(), nil)
	assert.Equal(t, ErrMemoryRequired, err)
}
