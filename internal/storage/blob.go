package storage

import "io"

// BlobStore holds question-image assets referenced by [file:<name>] tokens
// in imported documents.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
