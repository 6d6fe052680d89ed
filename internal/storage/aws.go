package storage

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client builds an S3 client from explicit static credentials. The
// credentials are passed in, never read from the process environment.
func NewS3Client(ctx context.Context, region, accessKeyID, secretAccessKey string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

// ParseS3URL splits an s3a:// or s3:// location into bucket and key prefix.
// The prefix keeps its trailing slash so keys can be appended directly.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	trimmed := raw
	switch {
	case strings.HasPrefix(raw, "s3a://"):
		trimmed = strings.TrimPrefix(raw, "s3a://")
	case strings.HasPrefix(raw, "s3://"):
		trimmed = strings.TrimPrefix(raw, "s3://")
	default:
		return "", "", fmt.Errorf("not an S3 location: %s", raw)
	}

	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in S3 location: %s", raw)
	}
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}
