// Package encoder implements file format encoders for lake tables.
package encoder

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// compressionCodec converts a compression name to a parquet WriterOption.
func compressionCodec(compression string) parquet.WriterOption {
	switch compression {
	case "snappy", "SNAPPY":
		return parquet.Compression(&parquet.Snappy)
	case "gzip", "GZIP":
		return parquet.Compression(&parquet.Gzip)
	case "lz4", "LZ4":
		return parquet.Compression(&parquet.Lz4Raw)
	case "zstd", "ZSTD":
		return parquet.Compression(&parquet.Zstd)
	case "uncompressed", "UNCOMPRESSED", "none", "NONE":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// Parquet encodes rows as a Parquet file. The schema is derived from the
// parquet struct tags of T. An empty row set produces a valid schema-only
// file, so an empty input relation still yields a written table.
func Parquet[T any](rows []T, compression string) ([]byte, error) {
	var buf bytes.Buffer

	writer := parquet.NewGenericWriter[T](
		&buf,
		compressionCodec(compression),
		parquet.CreatedBy("sparkify-data-lake", "1.0", "0"),
	)

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			writer.Close()
			return nil, fmt.Errorf("failed to write rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return buf.Bytes(), nil
}
