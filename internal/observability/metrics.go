package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ETL job.
type Metrics struct {
	// Input metrics
	RecordsRead *prometheus.CounterVec
	FilesRead   *prometheus.CounterVec

	// Output metrics
	RowsWritten       *prometheus.CounterVec
	FilesWritten      *prometheus.CounterVec
	FileWriteDuration *prometheus.HistogramVec
	FileSize          *prometheus.HistogramVec
	StorageErrors     *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RecordsRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_records_read_total",
				Help: "Total number of input records read",
			},
			[]string{"dataset"},
		),
		FilesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_files_read_total",
				Help: "Total number of input files read",
			},
			[]string{"dataset"},
		),
		RowsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_rows_written_total",
				Help: "Total number of table rows written",
			},
			[]string{"table"},
		),
		FilesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_files_written_total",
				Help: "Total number of files written to storage",
			},
			[]string{"table", "format", "status"},
		),
		FileWriteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etl_file_write_duration_seconds",
				Help:    "Duration of file write operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "format"},
		),
		FileSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etl_file_size_bytes",
				Help:    "Size of files written to storage",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
			[]string{"table", "format"},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"backend", "operation"},
		),
	}
}

// AddRecordsRead adds to the records read counter.
func (m *Metrics) AddRecordsRead(dataset string, count int) {
	m.RecordsRead.WithLabelValues(dataset).Add(float64(count))
}

// AddFilesRead adds to the files read counter.
func (m *Metrics) AddFilesRead(dataset string, count int) {
	m.FilesRead.WithLabelValues(dataset).Add(float64(count))
}

// AddRowsWritten adds to the rows written counter.
func (m *Metrics) AddRowsWritten(table string, count int) {
	m.RowsWritten.WithLabelValues(table).Add(float64(count))
}

// IncFilesWritten increments the files written counter.
func (m *Metrics) IncFilesWritten(table, format, status string) {
	m.FilesWritten.WithLabelValues(table, format, status).Inc()
}

// ObserveFileWriteDuration observes a file write duration.
func (m *Metrics) ObserveFileWriteDuration(backend, format string, seconds float64) {
	m.FileWriteDuration.WithLabelValues(backend, format).Observe(seconds)
}

// ObserveFileSize observes a written file size.
func (m *Metrics) ObserveFileSize(table, format string, size float64) {
	m.FileSize.WithLabelValues(table, format).Observe(size)
}

// IncStorageErrors increments the storage errors counter.
func (m *Metrics) IncStorageErrors(backend, operation string) {
	m.StorageErrors.WithLabelValues(backend, operation).Inc()
}
