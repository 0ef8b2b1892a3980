// Package importer copies external translation memories into a
// storage.MemoryRepository.
//
// Records are written in batches. Every batch write is retried with
// exponential backoff, progress is reported to an io.Writer, and the
// context is checked between batches so a long import can be abandoned.
package importer
