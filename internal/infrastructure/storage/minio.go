package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rondagdag/audience-survey/pkg/config"
)

// ErrObjectNotFound is returned when a requested object does not exist
var ErrObjectNotFound = errors.New("object not found")

// MinIOClient wraps MinIO operations for survey images and JSON documents
type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string // Public base URL objects are served from (e.g., https://minio.example.com)
	prefix  string
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	// Initialize MinIO client
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		baseURL = minioClient.EndpointURL().String()
	}

	client := &MinIOClient{
		client:  minioClient,
		bucket:  cfg.BucketName,
		baseURL: baseURL,
		prefix:  strings.Trim(cfg.ImagePrefix, "/"),
	}

	// Initialize bucket with public read policy
	ctx := context.Background()
	if err := client.ensureBucketWithPolicy(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucketWithPolicy ensures bucket exists and survey images are publicly readable
func (m *MinIOClient) ensureBucketWithPolicy(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	// Only the image prefix is public; snapshot documents stay private.
	resource := fmt.Sprintf("arn:aws:s3:::%s/*", m.bucket)
	if m.prefix != "" {
		resource = fmt.Sprintf("arn:aws:s3:::%s/%s/*", m.bucket, m.prefix)
	}
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["%s"]
			}
		]
	}`, resource)

	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// UploadFile uploads a file to MinIO
func (m *MinIOClient) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

// UploadImage stores a survey photo under the image prefix and returns its public URL
func (m *MinIOClient) UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	objectName := m.imageObject(name)
	if err := m.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return m.ObjectURL(objectName), nil
}

// DeleteImage removes a survey photo previously returned by UploadImage
func (m *MinIOClient) DeleteImage(ctx context.Context, imageURL string) error {
	objectName, ok := m.ObjectNameFromURL(imageURL)
	if !ok {
		return fmt.Errorf("image %q is not stored in bucket %s", imageURL, m.bucket)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// PutJSON writes a JSON document
func (m *MinIOClient) PutJSON(ctx context.Context, objectName string, body []byte) error {
	return m.UploadFile(ctx, objectName, bytes.NewReader(body), int64(len(body)), "application/json")
}

// GetJSON reads a JSON document. A missing object yields ErrObjectNotFound.
func (m *MinIOClient) GetJSON(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.translateErr(err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.translateErr(err)
	}
	return body, nil
}

// ObjectURL returns the public URL for an object
func (m *MinIOClient) ObjectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.baseURL, m.bucket, objectName)
}

// ObjectNameFromURL reverses ObjectURL
func (m *MinIOClient) ObjectNameFromURL(u string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", m.baseURL, m.bucket)
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(u, prefix)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return name, name != ""
}

func (m *MinIOClient) imageObject(name string) string {
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

func (m *MinIOClient) translateErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	return fmt.Errorf("failed to read object: %w", err)
}
