package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

type fakePutter struct {
	bucket, key string
	body        []byte
	opts        minio.PutObjectOptions
	err         error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, objectName string, reader *bytes.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.opts = bucket, objectName, opts
	f.body, _ = io.ReadAll(reader)
	return minio.UploadInfo{Key: objectName}, f.err
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"csv", "Leads Março.CSV", "imports/7/abc.csv"},
		{"xlsx", "planilha.xlsx", "imports/7/abc.xlsx"},
		{"no extension", "export", "imports/7/abc"},
		{"path in name", "../../etc/passwd", "imports/7/abc"},
		{"odd extension", "leads.c$v", "imports/7/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(7, "abc", tt.fileName))
		})
	}
}

func TestArchiveUpload(t *testing.T) {
	putter := &fakePutter{}
	a := &Archive{putter: putter, bucket: "lead-imports"}

	err := a.ArchiveUpload(context.Background(), 7, "abc", core.Upload{
		FileName:    "Leads São Paulo.csv",
		ContentType: "text/csv",
		Data:        []byte("nome\nAna\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "lead-imports", putter.bucket)
	assert.Equal(t, "imports/7/abc.csv", putter.key)
	assert.Equal(t, "nome\nAna\n", string(putter.body))
	assert.Equal(t, "text/csv", putter.opts.ContentType)
	assert.Equal(t, "Leads+S%C3%A3o+Paulo.csv", putter.opts.UserMetadata["original-name"])
	assert.Equal(t, "7", putter.opts.UserMetadata["search-id"])
}

func TestArchiveUpload_Failure(t *testing.T) {
	putter := &fakePutter{err: errors.New("bucket not found")}
	a := &Archive{putter: putter, bucket: "lead-imports"}

	err := a.ArchiveUpload(context.Background(), 1, "id", core.Upload{FileName: "a.xlsx"})
	assert.ErrorContains(t, err, "imports/1/id.xlsx")
	assert.Equal(t, "application/octet-stream", putter.opts.ContentType)
}
