package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/config"
)

// S3Storage uploads media to an S3-compatible bucket with public-read URLs.
type S3Storage struct {
	bucket    string
	publicURL string
	client    *s3.Client
	log       zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	storage := &S3Storage{
		bucket:    cfg.S3Bucket,
		publicURL: s3PublicBase(cfg),
		client:    client,
		log:       logger,
	}
	logger.Info().Str("bucket", storage.bucket).Str("public_url", storage.publicURL).Msg("s3 storage initialized")
	return storage, nil
}

// s3PublicBase works out the URL prefix objects are served from.
func s3PublicBase(cfg *config.Config) string {
	if cfg.S3PublicEndpoint != "" {
		return strings.TrimSuffix(cfg.S3PublicEndpoint, "/")
	}
	if cfg.S3Endpoint != "" {
		base := strings.TrimSuffix(cfg.S3Endpoint, "/")
		if cfg.S3UsePathStyle {
			return base + "/" + cfg.S3Bucket
		}
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			u.Host = cfg.S3Bucket + "." + u.Host
			return u.String()
		}
		return base + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int64("bytes", size).Msg("object uploaded")
	return nil
}

func (s *S3Storage) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimPrefix(key, "/")
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
