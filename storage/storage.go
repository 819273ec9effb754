package storage

import (
	"errors"
	"io"
)

var (
	// ErrKeyExists is returned by Save when the key is already taken. Keys
	// are generated fresh per attach, so callers treat this as retryable.
	ErrKeyExists = errors.New("storage: key already exists")
	// ErrNotFound is returned by Open and Delete for a missing object.
	ErrNotFound = errors.New("storage: object not found")
)

// Storage persists attachment bytes. Implementations must write bytes
// durably before returning from Save so that committing file metadata never
// races ahead of the bytes it points to.
type Storage interface {
	Save(key string, content io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}
