// Package storage wraps the MinIO object store holding post images and
// profile pictures. Objects are referenced everywhere else by their bucket
// object name; browsers get time-limited presigned URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Linksy/social-service/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	maxImageSize      = 5 << 20
	presignedURLGrace = time.Hour
)

var (
	ErrFileMustBeImage = errors.New("file must be an image")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size of 5 MB")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Storage struct {
	client *minio.Client
	cfg    config.MinioConfig
	logger *zap.Logger
}

func New(ctx context.Context, cfg config.MinioConfig, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	s := &Storage{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}
	s.logger.Sugar().Infof("created bucket %s", s.cfg.Bucket)
	return nil
}

func validateImage(size int64, filename, contentType string) (string, error) {
	if size > maxImageSize {
		return "", ErrFileTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrFileMustBeImage
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrFileMustBeImage
	}
	return ext, nil
}

func (s *Storage) upload(ctx context.Context, objectName string, file io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to upload object(%s): %s", objectName, err.Error())
		return "", err
	}
	return objectName, nil
}

// UploadPostImage stores a post's image under posts/<postID>/ and returns the
// object name.
func (s *Storage) UploadPostImage(ctx context.Context, postID int64, file io.Reader, size int64, filename, contentType string) (string, error) {
	ext, err := validateImage(size, filename, contentType)
	if err != nil {
		return "", err
	}
	objectName := fmt.Sprintf("posts/%d/%s%s", postID, uuid.New().String(), ext)
	return s.upload(ctx, objectName, file, size, contentType)
}

// UploadProfilePicture stores a user's picture under users/<userID>/ and
// returns the object name.
func (s *Storage) UploadProfilePicture(ctx context.Context, userID int64, file io.Reader, size int64, filename, contentType string) (string, error) {
	ext, err := validateImage(size, filename, contentType)
	if err != nil {
		return "", err
	}
	objectName := fmt.Sprintf("users/%d/%s%s", userID, uuid.New().String(), ext)
	return s.upload(ctx, objectName, file, size, contentType)
}

// PresignedURL returns a time-limited GET URL for an object. The internal
// endpoint is swapped for the public one so browsers outside the service
// network can follow it.
func (s *Storage) PresignedURL(ctx context.Context, objectName string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, objectName, presignedURLGrace, nil)
	if err != nil {
		s.logger.Sugar().Errorf("failed to presign object(%s): %s", objectName, err.Error())
		return "", err
	}

	url := presigned.String()
	if s.cfg.PublicEndpoint != "" && s.cfg.PublicEndpoint != s.cfg.Endpoint {
		url = strings.Replace(url, s.cfg.Endpoint, s.cfg.PublicEndpoint, 1)
	}
	return url, nil
}

// Delete removes an object; a missing object is not an error.
func (s *Storage) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{})
}
