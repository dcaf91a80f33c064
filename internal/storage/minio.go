package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the object-store contract the upload path consumes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	MakePublic(ctx context.Context, key string) error
	PublicURL(key string) string
}

// MinIOStorage implements ObjectStorage on a MinIO/S3 bucket. The bucket is
// created if missing and given an anonymous-read policy, so PublicURL links
// work without presigning.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	s := &MinIOStorage{
		client:  mc,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, s.bucket)
	if err := mc.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return nil, fmt.Errorf("minio bucket policy: %w", err)
	}
	return s, nil
}

func (s *MinIOStorage) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// MakePublic verifies the object landed. Read access itself comes from the
// bucket policy set at startup, MinIO has no per-object ACL to flip.
func (s *MinIOStorage) MakePublic(ctx context.Context, key string) error {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	return err
}

func (s *MinIOStorage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}
