package s3

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
)

// ImageStorage implements domain.FileStorage on top of a MinIO (or any
// S3-compatible) bucket.
type ImageStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewImageStorage connects to the object store and ensures the bucket exists.
func NewImageStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*ImageStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to ensure bucket %q: %w", bucket, err)
		}
	} else {
		log.Info("Created storage bucket", zap.String("bucket", bucket))
	}

	return &ImageStorage{
		client: client,
		bucket: bucket,
		logger: log.Named("ImageStorage"),
	}, nil
}

// Upload stores the image bytes under a fresh object key and returns the
// public URL together with the key needed for later removal.
func (s *ImageStorage) Upload(ctx context.Context, originalFileName string, data []byte) (domain.Image, error) {
	if len(data) == 0 {
		return domain.Image{}, fmt.Errorf("image data is empty")
	}

	ext := strings.ToLower(filepath.Ext(originalFileName))
	objectKey := fmt.Sprintf("images/%s%s", uuid.NewString(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		s.logger.Error("Failed to upload image", zap.Error(err), zap.String("object_key", objectKey))
		return domain.Image{}, fmt.Errorf("storage upload failed: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Info("Image uploaded", zap.String("object_key", objectKey), zap.Int("bytes", len(data)))

	return domain.Image{URL: url, Filename: objectKey}, nil
}

// Remove deletes a stored object. Removing an absent key is not an error.
func (s *ImageStorage) Remove(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.Error("Failed to remove image", zap.Error(err), zap.String("object_key", objectKey))
		return fmt.Errorf("storage remove failed: %w", err)
	}
	s.logger.Debug("Image removed", zap.String("object_key", objectKey))
	return nil
}
