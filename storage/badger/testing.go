package badger

import "github.com/poiesic/tmatch/storage"

// NewInMemoryRepository creates an in-memory repository for testing.
// Caller must close both the repository and the backend when done.
func NewInMemoryRepository() (storage.MemoryRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewMemoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}
