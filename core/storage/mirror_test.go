package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"plate-tracker/core/storage"
	"plate-tracker/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "plate-archives").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "plate-archives", mock.Anything).Return(nil)

	mirror := storage.NewMirror(mockClient, "plate-archives", zap.NewNop())
	err := mirror.EnsureBucket(context.Background())

	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestEnsureBucketSkipsWhenPresent(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "plate-archives").Return(true, nil)

	mirror := storage.NewMirror(mockClient, "plate-archives", zap.NewNop())
	err := mirror.EnsureBucket(context.Background())

	assert.NoError(t, err)
	mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadArchiveObjectNameAndContentType(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "dubai_2026-08-28.csv")
	require.NoError(t, os.WriteFile(local, []byte("region,plate_number\n"), 0o644))

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "plate-archives", "archives/dubai/dubai_2026-08-28.csv",
		mock.Anything, int64(20), mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "text/csv"
		})).Return(minio.UploadInfo{}, nil)

	mirror := storage.NewMirror(mockClient, "plate-archives", zap.NewNop())
	objectName, err := mirror.UploadArchive(context.Background(), "dubai", local)

	require.NoError(t, err)
	assert.Equal(t, "archives/dubai/dubai_2026-08-28.csv", objectName)
	mockClient.AssertExpectations(t)
}

func TestUploadAllSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "tracking_dubai_2026-08-28_120000.json")
	require.NoError(t, os.WriteFile(good, []byte("{}"), 0o644))

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "plate-archives", "archives/dubai/tracking_dubai_2026-08-28_120000.json",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("network down"))

	mirror := storage.NewMirror(mockClient, "plate-archives", zap.NewNop())

	// Missing file, empty path and failed upload are all tolerated.
	mirror.UploadAll(context.Background(), "dubai", []string{
		filepath.Join(dir, "missing.csv"),
		"",
		good,
	})
	mockClient.AssertExpectations(t)
}
