package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
type MemoryRepository struct {
	backend *Backend
	infoSeq *badger.Sequence
	recSeq  *badger.Sequence
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) (storage.MemoryRepository, error) {
	infoSeq, err := backend.GetSequence(memoryInfoSeq)
	if err != nil {
		return nil, err
	}
	recSeq, err := backend.GetSequence(memoryRecordSeq)
	if err != nil {
		infoSeq.Release()
		return nil, err
	}

	return &MemoryRepository{
		backend: backend,
		infoSeq: infoSeq,
		recSeq:  recSeq,
	}, nil
}

// Close releases the sequences.
func (r *MemoryRepository) Close() error {
	return errors.Join(r.infoSeq.Release(), r.recSeq.Release())
}

// nextSeq returns the next non-zero value of seq.
// BadgerDB sequences can return 0 on first call, so we skip it.
func nextSeq(seq *badger.Sequence) (uint64, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		return seq.Next()
	}
	return next, nil
}

// SaveMemoryInfo creates or replaces a memory descriptor.
func (r *MemoryRepository) SaveMemoryInfo(ctx context.Context, info *core.MemoryInfo) error {
	if err := validateMemoryID(info.Id); err != nil {
		return err
	}
	if err := core.ValidateOriginKind(info.Kind); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMemoryInfoKey(info.Id)
		old, err := readMemoryInfo(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			info.Position = old.Position
		} else if info.Position == 0 {
			pos, err := nextSeq(r.infoSeq)
			if err != nil {
				return err
			}
			info.Position = int(pos)
		}
		info.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalMemoryInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMemoryInfo retrieves a memory descriptor.
func (r *MemoryRepository) GetMemoryInfo(ctx context.Context, memoryID string) (*core.MemoryInfo, error) {
	if err := validateMemoryID(memoryID); err != nil {
		return nil, err
	}
	var result *core.MemoryInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMemoryInfo(tx, makeMemoryInfoKey(memoryID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListMemories returns every memory descriptor ordered by Position.
func (r *MemoryRepository) ListMemories(ctx context.Context) ([]*core.MemoryInfo, error) {
	var results []*core.MemoryInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memoryInfoPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var info *core.MemoryInfo
			err := iter.Item().Value(func(val []byte) error {
				var err error
				info, err = storage.UnmarshalMemoryInfo(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, info)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.MemoryInfo) int {
		return a.Position - b.Position
	})
	return results, nil
}

// AppendRecords stores records after the memory's existing records.
func (r *MemoryRepository) AppendRecords(ctx context.Context, memoryID string, records ...core.TranslationRecord) error {
	if err := validateMemoryID(memoryID); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			record := &records[i]
			if record.Id == 0 {
				record.Id = core.RecordID(memoryID, record)
			}

			// Replace in place when the ID is already stored
			idKey := makeRecordIDKey(memoryID, record.Id)
			seq, found, err := readSeq(tx, idKey)
			if err != nil {
				return err
			}
			if !found {
				seq, err = nextSeq(r.recSeq)
				if err != nil {
					return err
				}
				if err := tx.Set(idKey, encodeSeq(seq)); err != nil {
					return err
				}
			}

			if err := tx.Set(makeRecordKey(memoryID, seq), storage.MarshalTranslationRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteRecord removes a record by ID.
func (r *MemoryRepository) DeleteRecord(ctx context.Context, memoryID string, id core.ID) error {
	if err := validateMemoryID(memoryID); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		idKey := makeRecordIDKey(memoryID, id)
		seq, found, err := readSeq(tx, idKey)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		if err := tx.Delete(makeRecordKey(memoryID, seq)); err != nil {
			return err
		}
		if err := tx.Delete(idKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadRecords returns a memory's records in insertion order.
func (r *MemoryRepository) LoadRecords(ctx context.Context, memoryID string) ([]core.TranslationRecord, error) {
	if err := validateMemoryID(memoryID); err != nil {
		return nil, err
	}
	var results []core.TranslationRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialRecordKey(memoryID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalTranslationRecord(val)
				if err != nil {
					return err
				}
				results = append(results, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// CountRecords returns the number of records stored for a memory.
func (r *MemoryRepository) CountRecords(ctx context.Context, memoryID string) (int, error) {
	if err := validateMemoryID(memoryID); err != nil {
		return 0, err
	}
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePartialRecordIDKey(memoryID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteMemory removes a memory descriptor and all of its records.
func (r *MemoryRepository) DeleteMemory(ctx context.Context, memoryID string) error {
	if err := validateMemoryID(memoryID); err != nil {
		return err
	}

	infoKey := makeMemoryInfoKey(memoryID)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		info, err := readMemoryInfo(tx, infoKey)
		if err != nil {
			return err
		}
		if info == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	keys, _, err := r.recordKeys(memoryID)
	if err != nil {
		return err
	}
	return r.deleteKeys(append(keys, infoKey))
}

// DeleteRecords removes every record stored for a memory, whether or not
// it has a descriptor, and returns how many records were removed. The
// descriptor itself is left alone.
func (r *MemoryRepository) DeleteRecords(ctx context.Context, memoryID string) (int, error) {
	if err := validateMemoryID(memoryID); err != nil {
		return 0, err
	}
	keys, count, err := r.recordKeys(memoryID)
	if err != nil {
		return 0, err
	}
	if err := r.deleteKeys(keys); err != nil {
		return 0, err
	}
	return count, nil
}

// recordKeys collects the record and ID index keys of a memory. Records
// may exceed a single transaction, so keys are collected first and
// deleted in bounded batches.
func (r *MemoryRepository) recordKeys(memoryID string) (keys [][]byte, records int, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for i, prefix := range [][]byte{makePartialRecordKey(memoryID), makePartialRecordIDKey(memoryID)} {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = prefix
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
				if i == 0 {
					records++
				}
			}
			iter.Close()
		}
		return nil
	}, false)
	return keys, records, err
}

func (r *MemoryRepository) deleteKeys(keys [][]byte) error {
	for batch := range slices.Chunk(keys, deleteBatchSize) {
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, key := range batch {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

const deleteBatchSize = 1000

// readMemoryInfo reads a descriptor; returns nil, nil when absent.
func readMemoryInfo(tx *badger.Txn, key []byte) (*core.MemoryInfo, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var info *core.MemoryInfo
	err = item.Value(func(val []byte) error {
		var err error
		info, err = storage.UnmarshalMemoryInfo(val)
		return err
	})
	return info, err
}

// readSeq reads a sequence value from the ID index.
func readSeq(tx *badger.Txn, key []byte) (uint64, bool, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		var err error
		seq, err = decodeSeq(val)
		return err
	})
	return seq, err == nil, err
}
