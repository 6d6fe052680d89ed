// Package storage defines interfaces for reading input datasets and writing
// lake tables.
//
// Implementations exist for the local filesystem (local mode) and S3
// (remote mode). Inputs and outputs always live on the same backend.
package storage

import "context"

// Source reads raw input files from a storage backend.
type Source interface {
	// Glob returns the keys matching a slash-separated glob pattern,
	// e.g. "song_data/*/*/*/*.json". A pattern matching nothing returns
	// an empty slice, not an error.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// Read returns the full contents of a single key.
	Read(ctx context.Context, key string) ([]byte, error)
}

// Sink writes encoded table files to a storage backend.
type Sink interface {
	// Put writes data at the given key and returns the number of bytes
	// written.
	Put(ctx context.Context, key string, data []byte) (int64, error)

	// Clear removes everything under the given prefix. Clearing a prefix
	// that does not exist is not an error. Together with Put this gives
	// every table overwrite semantics.
	Clear(ctx context.Context, prefix string) error

	// Close releases backend resources.
	Close() error
}
