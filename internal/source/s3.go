package source

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	apperrors "github.com/jittakal/sparkifylake/internal/errors"
	"github.com/jittakal/sparkifylake/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Source = (*S3Source)(nil)

// S3Source implements storage.Source for an S3 bucket prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	base   string
	logger *slog.Logger
}

// NewS3Source creates a source reading from bucket under the given base
// prefix.
func NewS3Source(client *s3.Client, bucket, base string, logger *slog.Logger) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		base:   strings.TrimPrefix(base, "/"),
		logger: logger,
	}
}

// Glob lists the bucket under the longest literal prefix of the pattern and
// matches each key against it. Keys are returned relative to the base prefix.
func (s *S3Source) Glob(ctx context.Context, pattern string) ([]string, error) {
	prefix := s.base + literalPrefix(pattern)

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &apperrors.StorageError{Operation: "list", Path: prefix, Err: err}
		}
		for _, object := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(object.Key), s.base)
			ok, err := path.Match(pattern, key)
			if err != nil {
				return nil, &apperrors.StorageError{Operation: "list", Path: pattern, Err: err}
			}
			if ok {
				keys = append(keys, key)
			}
		}
	}

	s.logger.Debug("globbed input objects",
		"bucket", s.bucket,
		"pattern", pattern,
		"matches", len(keys),
	)
	return keys, nil
}

// Read returns the contents of a single key.
func (s *S3Source) Read(ctx context.Context, key string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.base + key),
	})
	if err != nil {
		return nil, &apperrors.StorageError{Operation: "read", Path: key, Err: err}
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, &apperrors.StorageError{Operation: "read", Path: key, Err: err}
	}
	return data, nil
}

// literalPrefix returns the pattern prefix up to the first glob metacharacter,
// used to narrow the S3 listing.
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
