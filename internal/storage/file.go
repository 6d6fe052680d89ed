package storage

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
var _ storage.Sink = (*FileSink)(nil)

// MetricsCollector defines metrics operations for storage sinks.
type MetricsCollector interface {
	IncStorageErrors(backend, operation string)
}

// FileSink implements storage.Sink for a local output directory.
type FileSink struct {
	base    string
	logger  *slog.Logger
	metrics MetricsCollector
}

// NewFileSink creates a sink rooted at the given directory.
func NewFileSink(base string, logger *slog.Logger, metrics MetricsCollector) (*FileSink, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("filesystem sink created", "base_path", base)

	return &FileSink{
		base:    base,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Put writes data at the given key, creating parent directories as needed.
func (s *FileSink) Put(ctx context.Context, key string, data []byte) (int64, error) {
	fullPath := filepath.Join(s.base, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("file", "mkdir")
		}
		return 0, &apperrors.StorageError{Operation: "mkdir", Path: key, Err: err}
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("file", "write")
		}
		return 0, &apperrors.StorageError{Operation: "write", Path: key, Err: err}
	}

	s.logger.Debug("wrote file", "path", fullPath, "size", len(data))
	return int64(len(data)), nil
}

// Clear removes everything under the given prefix.
func (s *FileSink) Clear(ctx context.Context, prefix string) error {
	target := filepath.Join(s.base, filepath.FromSlash(prefix))
	if err := os.RemoveAll(target); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("file", "clear")
		}
		return &apperrors.StorageError{Operation: "clear", Path: prefix, Err: err}
	}
	return nil
}

// Close closes the sink.
func (s *FileSink) Close() error {
	s.logger.Info("closing filesystem sink")
	return nil
}
