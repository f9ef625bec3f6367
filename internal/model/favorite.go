package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FavoriteStore defines persistence operations for favorites.
// A favorite exists at most once per (file, user) pair; the store must
// enforce this with a composite unique constraint so concurrent toggles
// cannot produce duplicate rows.
type FavoriteStore interface {
	Exists(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) (bool, error)
	// Add inserts the favorite; inserting an existing pair is a no-op.
	Add(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) error
	// Remove deletes the favorite; removing an absent pair is a no-op.
	Remove(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) error
}

// Favorite marks a file as favorited by a user.
type Favorite struct {
	ID        uuid.UUID
	FileID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
