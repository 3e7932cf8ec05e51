package storage

import (
	"context"
	"fmt"
	"time"

	"agreetime-api/core/config"
	"agreetime-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// IStorage is the object-store contract for attachment blobs. The API hands
// out presigned URLs so file bytes never pass through the service.
type IStorage interface {
	PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

var instance *Storage

func InitStorage(cfg *config.Config) (*Storage, error) {
	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
	}
	// A custom endpoint points at a local minio in development.
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	client := s3.New(opts)
	instance = &Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
	}

	logger.Info("Object storage initialized", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
	return instance, nil
}

func GetStorage() IStorage {
	return instance
}

func (s *Storage) PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		logger.Error("Storage:PresignUpload", err, "key", key)
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, nil
}

func (s *Storage) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		logger.Error("Storage:PresignDownload", err, "key", key)
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("Storage:Delete", err, "key", key)
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
