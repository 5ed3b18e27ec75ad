package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested object does not exist.
//
// Implementations must return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blobstore: object not found")

// ObjectInfo describes one stored object as reported by List.
type ObjectInfo struct {
	Key string
	// Fingerprint is an opaque value that changes whenever the object's
	// bytes change. S3-compatible stores report the content ETag.
	Fingerprint string
	Size        int64
}

// Store is the narrow blob storage interface the verification engine
// consumes: durable objects addressed by key, listable by prefix.
type Store interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
