package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	apperrors "github.com/jittakal/sparkifylake/internal/errors"
	"github.com/jittakal/sparkifylake/pkg/storage"
)

// Records reads every file matching pattern and decodes the JSON objects it
// contains. Song files hold a single object, log files hold one object per
// line; a streaming decoder handles both. Fields absent from a record decode
// to their zero or nil value, so inconsistent field presence across files is
// tolerated. Returns the decoded records and the number of files read.
func Records[T any](ctx context.Context, src storage.Source, pattern string) ([]T, int, error) {
	keys, err := src.Glob(ctx, pattern)
	if err != nil {
		return nil, 0, err
	}

	var records []T
	for _, key := range keys {
		data, err := src.Read(ctx, key)
		if err != nil {
			return nil, 0, err
		}

		decoder := json.NewDecoder(bytes.NewReader(data))
		for {
			var record T
			if err := decoder.Decode(&record); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, 0, &apperrors.DecodeError{Path: key, Err: err}
			}
			records = append(records, record)
		}
	}

	return records, len(keys), nil
}
