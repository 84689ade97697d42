// Package filestore wraps an S3-compatible object store with a
// more user-friendly interface.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const avatarsDir = "avatars"

type FileStoreInterface interface {
	WriteAvatar(ctx context.Context, userID, suffix, contentType string, data []byte) (objectPath string, err error)
	DeleteObject(ctx context.Context, objectPath string) error
	ObjectURL(objectPath string) string
}

type FileStore struct {
	client *minio.Client
	bucket string
	host   string
}

var _ FileStoreInterface = (*FileStore)(nil)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func New(conf Config) (*FileStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}

	return &FileStore{
		client: client,
		bucket: conf.Bucket,
		host:   fmt.Sprintf("%s://%s/%s", scheme, conf.Endpoint, conf.Bucket),
	}, nil
}

// EnsureBucket creates the configured bucket if it does not already exist.
func (f *FileStore) EnsureBucket(ctx context.Context) error {
	exists, err := f.client.BucketExists(ctx, f.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := f.client.MakeBucket(ctx, f.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

// WriteAvatar stores a user's avatar image. A user has at most one avatar
// per suffix, so re-uploading overwrites the previous object.
func (f *FileStore) WriteAvatar(ctx context.Context, userID, suffix, contentType string, data []byte) (string, error) {
	objectPath := avatarPath(userID, suffix)
	_, err := f.client.PutObject(ctx, f.bucket, objectPath,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("writing object %q: %w", objectPath, err)
	}
	return objectPath, nil
}

func (f *FileStore) DeleteObject(ctx context.Context, objectPath string) error {
	return f.client.RemoveObject(ctx, f.bucket, objectPath, minio.RemoveObjectOptions{})
}

// ObjectURL returns the public URL for an object path.
func (f *FileStore) ObjectURL(objectPath string) string {
	return f.host + "/" + strings.TrimLeft(objectPath, "/")
}

func avatarPath(userID, suffix string) string {
	return avatarsDir + "/" + userID + suffix
}
