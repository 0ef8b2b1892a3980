package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/storage"
)

// Key prefixes for different data types
const (
	memoryInfoPrefix     = "tminfo"
	memoryRecordPrefix   = "tmrec"
	memoryRecordIDPrefix = "tmrid"
	memoryInfoSeq        = "tminfoseq"
	memoryRecordSeq      = "tmrecseq"
)

// validateMemoryID rejects IDs that would break key framing.
func validateMemoryID(memoryID string) error {
	if memoryID == "" || strings.ContainsRune(memoryID, 0) {
		return storage.ErrInvalidQuery
	}
	return nil
}

// makeMemoryInfoKey generates a key for a memory descriptor.
// Format: prefix:memoryID
func makeMemoryInfoKey(memoryID string) []byte {
	return []byte(memoryInfoPrefix + ":" + memoryID)
}

// makePartialRecordKey generates the prefix of every record key of a memory.
// Format: prefix:memoryID\x00
func makePartialRecordKey(memoryID string) []byte {
	return []byte(memoryRecordPrefix + ":" + memoryID + "\x00")
}

// makeRecordKey generates a composite key ordering records by insertion.
// Format: prefix:memoryID\x00seq
func makeRecordKey(memoryID string, seq uint64) []byte {
	prefix := makePartialRecordKey(memoryID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialRecordIDKey generates the prefix of every ID index key of a memory.
// Format: prefix:memoryID\x00
func makePartialRecordIDKey(memoryID string) []byte {
	return []byte(memoryRecordIDPrefix + ":" + memoryID + "\x00")
}

// makeRecordIDKey generates the key of the ID -> sequence index.
// Format: prefix:memoryID\x00id
func makeRecordIDKey(memoryID string, id core.ID) []byte {
	prefix := makePartialRecordIDKey(memoryID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func encodeSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func decodeSeq(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, storage.ErrTruncatedData
	}
	return binary.BigEndian.Uint64(val), nil
}
