// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/config"
)

// StorageService uploads product documents to S3, or to the local upload
// directory when no AWS credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type FileUpload struct {
	Name string
	Data []byte
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Pages    int    `json:"pages,omitempty"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
	IsPublic     bool
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if !config.UsesS3() {
		if err := os.MkdirAll(config.Upload.LocalDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
		logrus.WithField("dir", config.Upload.LocalDir).Info("Storing uploads on local disk")
		return &StorageService{config: config}, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
		S3ForcePathStyle: aws.Bool(config.AWS.ForcePathStyle),
	}
	if config.AWS.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.AWS.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// IsLocal reports whether uploads land in the local upload directory.
func (s *StorageService) IsLocal() bool {
	return s.s3Client == nil
}

func (s *StorageService) DefaultUploadOptions() UploadOptions {
	maxSize, err := s.config.Upload.MaxSizeBytes()
	if err != nil {
		maxSize = 20 * units.MB
	}

	allowed := make([]string, 0, len(s.config.Upload.AllowedTypes))
	for _, ext := range s.config.Upload.AllowedTypes {
		allowed = append(allowed, strings.ToLower(ext))
	}

	return UploadOptions{
		Folder:       s.config.Upload.Folder,
		MaxSize:      maxSize,
		AllowedTypes: allowed,
		IsPublic:     s.config.AWS.PublicRead,
	}
}

func (s *StorageService) UploadFile(ctx context.Context, file FileUpload, options UploadOptions) (*UploadResult, error) {
	size := int64(len(file.Data))
	if size == 0 {
		return nil, validationError("upload", "uploaded file is empty")
	}

	// Validate file size
	if options.MaxSize > 0 && size > options.MaxSize {
		return nil, validationError("upload", fmt.Sprintf("file size %s exceeds maximum allowed size %s",
			units.HumanSize(float64(size)), units.HumanSize(float64(options.MaxSize))))
	}

	// Validate file type
	fileExt := strings.ToLower(filepath.Ext(file.Name))
	if len(options.AllowedTypes) > 0 {
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, validationError("upload", fmt.Sprintf("file type %q is not allowed", fileExt))
		}
	}

	mimeType := mimetype.Detect(file.Data).String()

	var pages int
	if fileExt == ".pdf" {
		count, err := api.PageCount(bytes.NewReader(file.Data), model.NewDefaultConfiguration())
		if err != nil {
			return nil, validationError("upload", "file is not a readable PDF document")
		}
		pages = count
	}

	key := s.generateFileName(file.Name, options.Folder)

	var (
		result *UploadResult
		err    error
	)
	if s.s3Client != nil {
		result, err = s.uploadToS3(ctx, file.Data, key, mimeType, options.IsPublic)
	} else {
		result, err = s.uploadToLocal(file.Data, key, mimeType)
	}
	if err != nil {
		return nil, newError("upload", ErrUpload, err)
	}

	result.Pages = pages
	return result, nil
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	path := s.localPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %w", err)
	}

	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/uploads/%s", strings.TrimRight(s.config.Upload.PublicBaseURL, "/"), key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		if err := os.Remove(s.localPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete local file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (s *StorageService) localPath(key string) string {
	return filepath.Join(s.config.Upload.LocalDir, filepath.FromSlash(key))
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(originalName))

	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", strings.Trim(folder, "/"), filename)
	}

	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.AWS.CloudFrontURL, "/"), key)
	}

	if s.config.AWS.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.AWS.Endpoint, "/"), s.config.AWS.S3Bucket, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
