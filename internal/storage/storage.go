// Package storage archives raw uploaded lead files in MinIO or any
// S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

// Config holds MinIO configuration
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type objectPutter interface {
	PutObject(ctx context.Context, bucket, objectName string, reader *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioPutter adapts *minio.Client, whose PutObject takes an io.Reader.
type minioPutter struct {
	client *minio.Client
}

func (p minioPutter) PutObject(ctx context.Context, bucket, objectName string, reader *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return p.client.PutObject(ctx, bucket, objectName, reader, size, opts)
}

// Archive stores uploads under imports/{searchID}/{importID}{ext}.
// It implements core.FileArchive.
type Archive struct {
	putter objectPutter
	bucket string
}

// New connects to the object store and creates the bucket if needed.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	if err := ensureBucket(ctx, client, cfg.Bucket); err != nil {
		return nil, err
	}

	return &Archive{putter: minioPutter{client: client}, bucket: cfg.Bucket}, nil
}

// ensureBucket creates the bucket if it doesn't exist. Uploads stay
// private, so no bucket policy is set.
func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey returns the object name for an upload.
func ObjectKey(searchID int64, importID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" && strings.Trim(ext[1:], "abcdefghijklmnopqrstuvwxyz0123456789") != "" {
		ext = ""
	}
	return path.Join("imports", strconv.FormatInt(searchID, 10), importID+ext)
}

func (a *Archive) ArchiveUpload(ctx context.Context, searchID int64, importID string, u core.Upload) error {
	key := ObjectKey(searchID, importID, u.FileName)

	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.putter.PutObject(ctx, a.bucket, key, bytes.NewReader(u.Data), int64(len(u.Data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-name": url.QueryEscape(u.FileName),
			"search-id":     strconv.FormatInt(searchID, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}
