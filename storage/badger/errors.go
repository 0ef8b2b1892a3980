package badger

import (
	"fmt"

	"github.com/poiesic/tmatch/storage"
)

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = fmt.Errorf("badger: %w", storage.ErrStorageClosed)
