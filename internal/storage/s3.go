package storage

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/jittakal/sparkifylake/internal/errors"
	"github.com/jittakal/sparkifylake/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Sink = (*S3Sink)(nil)

// S3Sink implements storage.Sink for an S3 bucket prefix.
type S3Sink struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	base     string
	logger   *slog.Logger
	metrics  MetricsCollector
}

// NewS3Sink creates a sink writing to bucket under the given base prefix.
func NewS3Sink(client *s3.Client, bucket, base string, logger *slog.Logger, metrics MetricsCollector) *S3Sink {
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.Concurrency = 5
	})

	logger.Info("S3 sink created", "bucket", bucket, "base_path", base)

	return &S3Sink{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		base:     strings.TrimPrefix(base, "/"),
		logger:   logger,
		metrics:  metrics,
	}
}

// Put uploads data at the given key.
func (s *S3Sink) Put(ctx context.Context, key string, data []byte) (int64, error) {
	s3Key := s.base + key

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("s3", "upload")
		}
		return 0, &apperrors.StorageError{Operation: "upload", Path: key, Err: err}
	}

	s.logger.Debug("uploaded object", "bucket", s.bucket, "key", s3Key, "size", len(data))
	return int64(len(data)), nil
}

// Clear deletes every object under the given prefix.
func (s *S3Sink) Clear(ctx context.Context, prefix string) error {
	s3Prefix := s.base + prefix

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s3Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncStorageErrors("s3", "list")
			}
			return &apperrors.StorageError{Operation: "list", Path: prefix, Err: err}
		}

		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, object := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: object.Key})
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncStorageErrors("s3", "delete")
			}
			return &apperrors.StorageError{Operation: "delete", Path: prefix, Err: err}
		}
	}

	return nil
}

// Close closes the sink.
func (s *S3Sink) Close() error {
	s.logger.Info("closing S3 sink")
	return nil
}
