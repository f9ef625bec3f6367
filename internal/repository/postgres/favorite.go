package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive-server/internal/model"
)

var _ model.FavoriteStore = (*FavoriteRepository)(nil)

type FavoriteRepository struct {
	db *Connection
}

func NewFavoriteRepository(db *Connection) *FavoriteRepository {
	return &FavoriteRepository{
		db: db,
	}
}

func (r *FavoriteRepository) Exists(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE file_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, fileID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) error {
	// The composite unique constraint makes concurrent double-toggle safe:
	// two racing inserts for the same pair leave a single row.
	const query = `INSERT INTO favorites (file_id, user_id)
				   VALUES ($1, $2)
				   ON CONFLICT (file_id, user_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, fileID, userID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, fileID uuid.UUID, userID uuid.UUID) error {
	const query = `DELETE FROM favorites WHERE file_id = $1 AND user_id = $2`

	if _, err := r.db.Exec(ctx, query, fileID, userID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
