package memory

import "errors"

var (
	// ErrMemoryIDRequired is returned when a memory is created without an ID.
	ErrMemoryIDRequired = errors.New("memory ID required")

	// ErrEntryKeyRequired is returned when an alternative translation has no entry key.
	ErrEntryKeyRequired = errors.New("entry key required")

	// ErrNotFound is returned when removing a translation that does not exist.
	ErrNotFound = errors.New("translation not found")
)
