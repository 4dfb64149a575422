package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror uploads archive artifacts to an S3-compatible bucket. The local
// archive directory remains the system of record; the mirror is best-effort
// and failures never block the archival path.
type Mirror struct {
	client Client
	bucket string
	logger *zap.Logger
}

// NewMirror creates a Mirror over the given client and bucket.
func NewMirror(client Client, bucket string, logger *zap.Logger) *Mirror {
	return &Mirror{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// EnsureBucket creates the mirror bucket if it does not exist yet.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	return nil
}

// UploadArchive uploads a local archive file under archives/<region>/<basename>.
// Returns the object name it was stored under.
func (m *Mirror) UploadArchive(ctx context.Context, region, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat archive %s: %w", localPath, err)
	}

	objectName := path.Join("archives", region, filepath.Base(localPath))
	contentType := "application/octet-stream"
	switch filepath.Ext(localPath) {
	case ".json":
		contentType = "application/json"
	case ".csv":
		contentType = "text/csv"
	}

	_, err = m.client.PutObject(ctx, m.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive %s: %w", objectName, err)
	}
	return objectName, nil
}

// UploadAll mirrors a set of local archive files, logging and skipping
// individual failures so one bad file does not abort the rest.
func (m *Mirror) UploadAll(ctx context.Context, region string, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		objectName, err := m.UploadArchive(ctx, region, p)
		if err != nil {
			m.logger.Warn("Archive mirror upload failed",
				zap.String("region", region),
				zap.String("path", p),
				zap.Error(err),
			)
			continue
		}
		m.logger.Info("Archive mirrored",
			zap.String("region", region),
			zap.String("object", objectName),
		)
	}
}
