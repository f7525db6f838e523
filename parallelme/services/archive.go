package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:generate mockgen -source=archive.go -destination=mock/archive.go -package=mock

// Archive stores exported journey documents.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type ArchiveConfig struct {
	Endpoint string
	Region   string
	Bucket   string
	Key      string
	Secret   string
	Prefix   string
}

// objectPutter is the part of the S3 client the archive uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// JourneyArchive writes journey exports to an S3-compatible bucket.
type JourneyArchive struct {
	client objectPutter
	bucket string
	prefix string
}

func NewJourneyArchive(ctx context.Context, cfg ArchiveConfig) (*JourneyArchive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Key != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load archive config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newJourneyArchive(client, cfg.Bucket, cfg.Prefix), nil
}

func newJourneyArchive(client objectPutter, bucket, prefix string) *JourneyArchive {
	return &JourneyArchive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Put uploads body under the configured prefix and returns its location.
func (a *JourneyArchive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	fullKey := key
	if a.prefix != "" {
		fullKey = path.Join(a.prefix, key)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucket, fullKey)
	slog.Info("Journey archived",
		slog.String("location", location),
		slog.Int("bytes", len(body)))
	return location, nil
}
