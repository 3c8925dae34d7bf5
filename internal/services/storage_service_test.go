package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newLocalStorage(t *testing.T) (*StorageService, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Upload.LocalDir = dir
	cfg.Upload.PublicBaseURL = "http://localhost:8080/"
	cfg.Upload.MaxSize = "1KB"

	storage, err := NewStorageService(cfg)
	require.NoError(t, err)
	require.True(t, storage.IsLocal())
	return storage, dir
}

func TestLocalUploadAndDelete(t *testing.T) {
	storage, dir := newLocalStorage(t)
	ctx := context.Background()

	result, err := storage.UploadFile(ctx, FileUpload{Name: "Drawing.PNG", Data: pngHeader}, storage.DefaultUploadOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "documents/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, int64(len(pngHeader)), result.Size)

	path := filepath.Join(dir, filepath.FromSlash(result.Key))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, storage.DeleteFile(ctx, result.Key))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, storage.DeleteFile(ctx, result.Key))
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	storage, _ := newLocalStorage(t)
	options := storage.DefaultUploadOptions()

	tests := []struct {
		name string
		file FileUpload
	}{
		{name: "empty", file: FileUpload{Name: "manual.pdf"}},
		{name: "too large", file: FileUpload{Name: "manual.png", Data: make([]byte, 2048)}},
		{name: "extension not allowed", file: FileUpload{Name: "setup.exe", Data: []byte("MZ")}},
		{name: "broken pdf", file: FileUpload{Name: "manual.pdf", Data: []byte("not a pdf at all")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.UploadFile(context.Background(), tt.file, options)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDefaultUploadOptions(t *testing.T) {
	storage, _ := newLocalStorage(t)

	options := storage.DefaultUploadOptions()

	assert.Equal(t, "documents", options.Folder)
	assert.Equal(t, int64(1000), options.MaxSize)
	assert.Equal(t, []string{".pdf", ".png", ".jpg", ".jpeg"}, options.AllowedTypes)
}

func TestS3URL(t *testing.T) {
	cfg := config.Defaults()
	cfg.AWS.S3Bucket = "catalog"
	cfg.AWS.Region = "eu-central-1"
	storage := &StorageService{config: cfg}

	assert.Equal(t, "https://catalog.s3.eu-central-1.amazonaws.com/documents/a.pdf", storage.getS3URL("documents/a.pdf"))

	cfg.AWS.Endpoint = "http://minio:9000/"
	assert.Equal(t, "http://minio:9000/catalog/documents/a.pdf", storage.getS3URL("documents/a.pdf"))

	cfg.AWS.CloudFrontURL = "https://d123.cloudfront.net"
	assert.Equal(t, "https://d123.cloudfront.net/documents/a.pdf", storage.getS3URL("documents/a.pdf"))
}
