package importer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when no repository is provided.
	ErrRepositoryRequired = errors.New("memory repository required")

	// ErrMemoryRequired is returned when Run is given no memory.
	ErrMemoryRequired = errors.New("external memory required")
)
