package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"tenanthub-backend/shared/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOService wraps the object store behind workspace-scoped object
// keys (<workspace_id>/<knowledge_base_id>/<file_name>). Tenant
// isolation lives in the key prefix; the bucket is shared.
type MinIOService struct {
	client     *minio.Client
	bucketName string
}

func NewMinIOService() (*MinIOService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &MinIOService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	// Test connection and create bucket if needed
	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MinIOService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// GetBucketName returns the bucket name
func (s *MinIOService) GetBucketName() string {
	return s.bucketName
}

// UploadObject stores an object under the given key
func (s *MinIOService) UploadObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	log.Printf("⬆️ Uploading object: %s/%s (size: %d bytes)", s.bucketName, objectKey, size)

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %v", err)
	}

	return nil
}

// DownloadObject opens a reader for the object. The caller must close it.
func (s *MinIOService) DownloadObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %v", err)
	}
	return object, nil
}

// RemoveObject deletes a single object
func (s *MinIOService) RemoveObject(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object: %v", err)
	}
	return nil
}

// RemovePrefix deletes every object under a prefix. Used when a
// knowledge base or workspace is deleted.
func (s *MinIOService) RemovePrefix(ctx context.Context, prefix string) error {
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var failures []string
	removed := 0

	for object := range objectCh {
		if object.Err != nil {
			failures = append(failures, fmt.Sprintf("list error: %v", object.Err))
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			failures = append(failures, fmt.Sprintf("failed to delete %s: %v", object.Key, err))
		} else {
			removed++
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to delete some objects: %v", failures)
	}

	log.Printf("✅ MinIO prefix deleted: %s (removed %d objects)", prefix, removed)
	return nil
}

// TestConnection verifies the object store is reachable
func (s *MinIOService) TestConnection() error {
	ctx := context.Background()

	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %v", err)
	}

	log.Printf("✅ MinIO connection successful. Found %d buckets", len(buckets))
	return nil
}
