package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

const defaultRegion = "us-east-1"

// S3Storage keeps attachments in an S3 bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage loads AWS configuration. Static credentials are used when both
// keys are set; otherwise the default chain (environment, IAM role) applies.
func NewS3Storage(cfg Config) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET is required for s3 storage")
	}
	region := cfg.S3Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Storage{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket}, nil
}

func (s *S3Storage) Upload(ctx context.Context, filename string, data io.Reader) (string, error) {
	key := newKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(ContentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}
	return key, nil
}

func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, domain.ErrAttachmentNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("download from S3: %w", err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return domain.ErrAttachmentNotFound
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}
