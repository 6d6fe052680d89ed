package encoder

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/linkedin/goavro/v2"

	"github.com/jittakal/sparkifylake/pkg/schema"
)

// Avro encodes rows as an Avro Object Container File, optionally gzipped.
// The schema comes from the row type. An empty row set produces a valid OCF
// file with a schema header and no records.
func Avro[T schema.AvroRow](rows []T, compression string) ([]byte, error) {
	var zero T
	codec, err := goavro.NewCodec(zero.AvroSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	var gzipWriter *gzip.Writer

	if compression == "gzip" || compression == "GZIP" {
		gzipWriter = gzip.NewWriter(&buf)
		writer = gzipWriter
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:     writer,
		Codec: codec,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF writer: %w", err)
	}

	for i, row := range rows {
		if err := ocfWriter.Append([]interface{}{row.AvroNative()}); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if gzipWriter != nil {
		if err := gzipWriter.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}

	return buf.Bytes(), nil
}
