package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"postline/config"
	"postline/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const avatarPrefix = "avatars/"

// AvatarStore keeps user avatars in a MinIO bucket.
type AvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to MinIO and ensures the bucket exists.
func NewAvatarStore(cfg *config.Config) (*AvatarStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created avatar bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &AvatarStore{client: client, bucket: cfg.MinioBucket}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// Put stores a user's avatar and returns its serve path. One object per
// user: a re-upload overwrites the previous avatar.
func (s *AvatarStore) Put(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := avatarPrefix + userID + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store avatar for user %s: %w", userID, err)
	}

	return "/static/" + objectName, nil
}

// Open fetches an avatar object by its serve path.
func (s *AvatarStore) Open(ctx context.Context, servePath string) (io.ReadCloser, error) {
	objectName := strings.TrimPrefix(servePath, "/static/")
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open avatar object %s: %w", objectName, err)
	}
	return object, nil
}
