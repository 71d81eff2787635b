package storage

import (
	"bytes"
	"context"
	"fmt"

	"smart-schedule/core/config"
	"smart-schedule/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore archives small documents.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store returns nil, nil when no bucket is configured.
func NewS3Store(cfg config.StorageConfig) (ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("storage: region is required for bucket %s", cfg.Bucket)
	}

	awsCfg := aws.Config{Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("Storage:NewS3Store", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
