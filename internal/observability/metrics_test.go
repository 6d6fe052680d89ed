package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	if metrics == nil {
		t.Fatal("NewMetrics returned nil")
	}

	metrics.AddRecordsRead("song_data", 14)
	metrics.AddFilesRead("song_data", 14)
	metrics.AddRowsWritten("songs_tables", 14)
	metrics.IncFilesWritten("songs_tables", "parquet", "success")
	metrics.ObserveFileWriteDuration("file", "parquet", 0.05)
	metrics.ObserveFileSize("songs_tables", "parquet", 2048)
	metrics.IncStorageErrors("s3", "put")

	if got := testutil.ToFloat64(metrics.RecordsRead.WithLabelValues("song_data")); got != 14 {
		t.Errorf("records read = %v, want 14", got)
	}
	if got := testutil.ToFloat64(metrics.RowsWritten.WithLabelValues("songs_tables")); got != 14 {
		t.Errorf("rows written = %v, want 14", got)
	}
	if got := testutil.ToFloat64(metrics.FilesWritten.WithLabelValues("songs_tables", "parquet", "success")); got != 1 {
		t.Errorf("files written = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.StorageErrors.WithLabelValues("s3", "put")); got != 1 {
		t.Errorf("storage errors = %v, want 1", got)
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewMetrics(registry)
}
