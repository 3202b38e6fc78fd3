// Package s3source streams the corpus object from S3-compatible storage.
package s3source

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/heartmarshall/lessico/internal/config"
)

// ObjectGetter is the subset of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source opens the configured object on every call.
type Source struct {
	client ObjectGetter
	bucket string
	key    string
	log    *slog.Logger
}

// New builds an S3 client from cfg. Region defaults to us-east-1, which is
// what MinIO and most S3-compatible servers expect.
func New(ctx context.Context, cfg config.CorpusS3Config, logger *slog.Logger) (*Source, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3source: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.Key, logger), nil
}

// NewWithClient creates a Source around an existing client.
func NewWithClient(client ObjectGetter, bucket, key string, logger *slog.Logger) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		key:    key,
		log:    logger.With("adapter", "s3source"),
	}
}

// Open starts a GetObject and returns its body stream.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "get corpus object failed",
			slog.String("bucket", s.bucket),
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("s3source: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}

// String describes the source for logs.
func (s *Source) String() string { return "s3://" + s.bucket + "/" + s.key }
