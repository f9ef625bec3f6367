package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive-server/internal/model"
	"github.com/filedrive/filedrive-server/internal/testutil"
)

func TestSweeper_SweepExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	by := uuid.New()

	expiredA := model.File{ID: uuid.New(), StorageKey: "blob-a", ScheduledDeleteAt: &past, DeletedBy: &by}
	expiredB := model.File{ID: uuid.New(), StorageKey: "blob-b", ScheduledDeleteAt: &past, DeletedBy: &by}

	t.Run("purges every expired file", func(t *testing.T) {
		fileStore := &MockFileStore{}
		objectStore := &MockObjectStore{}

		fileStore.On("ListExpired", mock.Anything, now).Return([]model.File{expiredA, expiredB}, nil)
		fileStore.On("Delete", mock.Anything, expiredA.ID).Return(nil)
		fileStore.On("Delete", mock.Anything, expiredB.ID).Return(nil)
		objectStore.On("Delete", mock.Anything, "blob-a").Return(nil)
		objectStore.On("Delete", mock.Anything, "blob-b").Return(nil)

		sweeper := NewSweeper(fileStore, objectStore, testutil.MakeNoopLogger(), time.Hour)
		sweeper.now = func() time.Time { return now }

		purged, err := sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, purged)

		fileStore.AssertExpectations(t)
		objectStore.AssertExpectations(t)
	})

	t.Run("second run with nothing expired is a no-op", func(t *testing.T) {
		fileStore := &MockFileStore{}
		objectStore := &MockObjectStore{}

		fileStore.On("ListExpired", mock.Anything, now).Return([]model.File{}, nil)

		sweeper := NewSweeper(fileStore, objectStore, testutil.MakeNoopLogger(), time.Hour)
		sweeper.now = func() time.Time { return now }

		purged, err := sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Zero(t, purged)

		fileStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("skips files a concurrent sweep already purged", func(t *testing.T) {
		fileStore := &MockFileStore{}
		objectStore := &MockObjectStore{}

		fileStore.On("ListExpired", mock.Anything, now).Return([]model.File{expiredA, expiredB}, nil)
		fileStore.On("Delete", mock.Anything, expiredA.ID).Return(model.ErrNotFound)
		fileStore.On("Delete", mock.Anything, expiredB.ID).Return(nil)
		objectStore.On("Delete", mock.Anything, "blob-b").Return(nil)

		sweeper := NewSweeper(fileStore, objectStore, testutil.MakeNoopLogger(), time.Hour)
		sweeper.now = func() time.Time { return now }

		purged, err := sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		objectStore.AssertNotCalled(t, "Delete", mock.Anything, "blob-a")
	})
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	fileStore := &MockFileStore{}
	objectStore := &MockObjectStore{}

	sweeper := NewSweeper(fileStore, objectStore, testutil.MakeNoopLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
