package object

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object for cleanup sweeps.
type ObjectInfo struct {
	Key      string
	Size     int64
	Modified time.Time
}

// ObjectStore defines the contract for saving and retrieving exported files.
// Delete is idempotent: removing a missing object is not an error.
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
