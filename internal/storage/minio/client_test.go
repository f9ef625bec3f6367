package minio

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI without a real MinIO server.
type fakeMinio struct {
	bucketExists   bool
	bucketErr      error
	madeBuckets    []string
	presignPutErr  error
	presignGetErr  error
	statErr        error
	removeErr      error
	removedObjects []string
}

func (f *fakeMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.bucketExists, f.bucketErr
}

func (f *fakeMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.madeBuckets = append(f.madeBuckets, bucketName)
	return nil
}

func (f *fakeMinio) PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	if f.presignPutErr != nil {
		return nil, f.presignPutErr
	}
	return url.Parse("https://minio.local/" + bucketName + "/" + objectName + "?X-Amz-Signature=put")
}

func (f *fakeMinio) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	if f.presignGetErr != nil {
		return nil, f.presignGetErr
	}
	return url.Parse("https://minio.local/" + bucketName + "/" + objectName + "?X-Amz-Signature=get")
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedObjects = append(f.removedObjects, objectName)
	return nil
}

func (f *fakeMinio) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if f.statErr != nil {
		return minio.ObjectInfo{}, f.statErr
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func TestNewClientWithAPI(t *testing.T) {
	t.Run("creates missing bucket", func(t *testing.T) {
		api := &fakeMinio{bucketExists: false}

		_, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, []string{"files"}, api.madeBuckets)
	})

	t.Run("keeps existing bucket", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}

		_, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		require.NoError(t, err)
		assert.Empty(t, api.madeBuckets)
	})

	t.Run("bucket check failure", func(t *testing.T) {
		api := &fakeMinio{bucketErr: errors.New("connection refused")}

		_, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		assert.Error(t, err)
	})
}

func TestClient_IssueUploadTarget(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
	require.NoError(t, err)

	target, err := client.IssueUploadTarget(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(target.Key)
	assert.NoError(t, err, "storage key should be a fresh UUID")
	assert.Contains(t, target.URL, target.Key)

	// a second target never reuses a key
	second, err := client.IssueUploadTarget(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, target.Key, second.Key)
}

func TestClient_ResolveURL(t *testing.T) {
	t.Run("existing blob", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		client, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		require.NoError(t, err)

		resolved, err := client.ResolveURL(context.Background(), "blob-1")
		require.NoError(t, err)
		assert.Contains(t, resolved, "blob-1")
	})

	t.Run("missing blob yields empty url without error", func(t *testing.T) {
		api := &fakeMinio{
			bucketExists: true,
			statErr:      minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404},
		}
		client, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		require.NoError(t, err)

		resolved, err := client.ResolveURL(context.Background(), "blob-gone")
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})

	t.Run("stat failure propagates", func(t *testing.T) {
		api := &fakeMinio{
			bucketExists: true,
			statErr:      minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403},
		}
		client, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
		require.NoError(t, err)

		_, err = client.ResolveURL(context.Background(), "blob-1")
		assert.Error(t, err)
	})
}

func TestClient_Delete(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "files", 15*time.Minute)
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "blob-1"))
	assert.Equal(t, []string{"blob-1"}, api.removedObjects)
}
