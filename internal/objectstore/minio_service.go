package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MinioClient wraps the MinIO SDK client with the bucket the platform stores
// its workbooks in: uploaded input files and generated result files.
type MinioClient struct {
	Client     *minio.Client
	BucketName string
}

var globalMinioClient *MinioClient

// InitMinioClient initializes the global MinIO client and ensures the bucket
// exists. This should be called at application startup.
func InitMinioClient(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool) error {
	log := logrus.WithField("component", "objectstore")

	if endpoint == "" || accessKeyID == "" || secretAccessKey == "" || bucketName == "" {
		return fmt.Errorf("minio endpoint, access key, secret key, and bucket name must be set")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if MinIO bucket '%s' exists: %w", bucketName, err)
	}
	if !exists {
		log.Infof("MinIO bucket '%s' does not exist, creating it", bucketName)
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create MinIO bucket '%s': %w", bucketName, err)
		}
	}

	globalMinioClient = &MinioClient{
		Client:     minioClient,
		BucketName: bucketName,
	}
	log.Info("MinIO client initialized")
	return nil
}

// GetGlobalMinioClient returns the initialized global MinIO client.
func GetGlobalMinioClient() (*MinioClient, error) {
	if globalMinioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized. Call InitMinioClient first")
	}
	return globalMinioClient, nil
}

func (mc *MinioClient) ensureConfigured() error {
	if mc == nil || mc.Client == nil {
		return fmt.Errorf("MinIO client not initialized properly in MinioClient struct")
	}
	if mc.BucketName == "" {
		return fmt.Errorf("MinIO bucket name not configured in MinioClient struct")
	}
	return nil
}

// UploadWorkbook stores workbook bytes under a unique object name derived
// from the original filename's extension and returns that object name.
func (mc *MinioClient) UploadWorkbook(ctx context.Context, originalFilename string, data []byte) (string, error) {
	if err := mc.ensureConfigured(); err != nil {
		return "", err
	}

	extension := filepath.Ext(originalFilename)
	if extension == "" {
		extension = ".xlsx"
	}
	objectName := fmt.Sprintf("%s%s", uuid.New().String(), extension)

	uploadInfo, err := mc.Client.PutObject(ctx, mc.BucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: workbookContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload workbook to MinIO (bucket: %s, object: %s): %w", mc.BucketName, objectName, err)
	}

	logrus.WithField("component", "objectstore").Infof("Uploaded '%s' (%d bytes, ETag %s)", objectName, uploadInfo.Size, uploadInfo.ETag)
	return objectName, nil
}

// GetWorkbookReader retrieves a stored workbook as an io.ReadCloser plus its
// size, for streaming downloads. The caller closes the reader.
func (mc *MinioClient) GetWorkbookReader(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	if err := mc.ensureConfigured(); err != nil {
		return nil, 0, err
	}

	object, err := mc.Client.GetObject(ctx, mc.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", objectName, mc.BucketName, err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, 0, fmt.Errorf("failed to get object stats for '%s': %w", objectName, err)
	}

	return object, stat.Size, nil
}

