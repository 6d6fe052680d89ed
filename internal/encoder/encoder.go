package encoder

import (
	"fmt"

	"github.com/jittakal/sparkifylake/pkg/schema"
)

// Encode encodes rows in the given format.
func Encode[T schema.AvroRow](format schema.FileFormat, rows []T, compression string) ([]byte, error) {
	switch format {
	case schema.FormatParquet:
		return Parquet(rows, compression)
	case schema.FormatAvro:
		return Avro(rows, compression)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
}

// Extension returns the file extension for a format and compression.
func Extension(format schema.FileFormat, compression string) string {
	switch format {
	case schema.FormatAvro:
		if compression == "gzip" || compression == "GZIP" {
			return ".avro.gz"
		}
		return ".avro"
	default:
		return ".parquet"
	}
}

// DefaultCompression returns the default compression for a format.
func DefaultCompression(format schema.FileFormat) string {
	switch format {
	case schema.FormatParquet:
		return "snappy"
	case schema.FormatAvro:
		return "gzip"
	default:
		return "uncompressed"
	}
}

// SupportedFormats returns the supported file formats.
func SupportedFormats() []schema.FileFormat {
	return []schema.FileFormat{
		schema.FormatParquet,
		schema.FormatAvro,
	}
}
