// Package source implements input readers for the local filesystem and S3.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/jittakal/sparkifylake/internal/errors"
	"github.com/jittakal/sparkifylake/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Source = (*FileSource)(nil)

// FileSource implements storage.Source for a local input directory.
type FileSource struct {
	base   string
	logger *slog.Logger
}

// NewFileSource creates a source rooted at the given directory.
func NewFileSource(base string, logger *slog.Logger) *FileSource {
	return &FileSource{
		base:   base,
		logger: logger,
	}
}

// Glob returns the keys under the base directory matching the pattern,
// relative to the base and slash-separated. A pattern matching nothing
// returns an empty slice.
func (s *FileSource) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.base, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(s.base, match)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize path %q: %w", match, err)
		}
		keys = append(keys, filepath.ToSlash(rel))
	}

	s.logger.Debug("globbed input files", "pattern", pattern, "matches", len(keys))
	return keys, nil
}

// Read returns the contents of a single key.
func (s *FileSource) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.base, filepath.FromSlash(key)))
	if err != nil {
		return nil, &apperrors.StorageError{Operation: "read", Path: key, Err: err}
	}
	return data, nil
}
