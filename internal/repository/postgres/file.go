package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/filedrive/filedrive-server/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{
		db: db,
	}
}

const fileColumns = `id, label, type, storage_key, org_id, author_id, scheduled_delete_at, deleted_by, created_at, updated_at`

func scanFile(row pgx.Row) (model.File, error) {
	var file model.File
	err := row.Scan(
		&file.ID, &file.Label, &file.Type, &file.StorageKey, &file.OrgID,
		&file.AuthorID, &file.ScheduledDeleteAt, &file.DeletedBy,
		&file.CreatedAt, &file.UpdatedAt,
	)
	return file, err
}

func (r *FileRepository) Create(ctx context.Context, file model.File) (model.File, error) {
	query := `INSERT INTO files (id, label, type, storage_key, org_id, author_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + fileColumns

	saved, err := scanFile(r.db.QueryRow(ctx, query,
		file.ID, file.Label, string(file.Type), file.StorageKey, file.OrgID, file.AuthorID,
	))
	if err != nil {
		return model.File{}, fmt.Errorf("failed to create file: %w", err)
	}

	return saved, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	file, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file by id: %w", err)
	}

	return file, nil
}

func (r *FileRepository) ListByOrg(ctx context.Context, orgID string, filter model.ListFilter, userID uuid.UUID) ([]model.File, error) {
	query := `SELECT f.` + joinFileColumns() + ` FROM files f`
	args := []any{orgID}

	switch filter.Kind {
	case model.ListKindFavorites:
		query += ` JOIN favorites fav ON fav.file_id = f.id AND fav.user_id = $2
				   WHERE f.org_id = $1 AND f.scheduled_delete_at IS NULL`
		args = append(args, userID)
	case model.ListKindTrash:
		query += ` WHERE f.org_id = $1 AND f.scheduled_delete_at IS NOT NULL`
	default:
		query += ` WHERE f.org_id = $1 AND f.scheduled_delete_at IS NULL`
	}

	if filter.Query != "" {
		query += fmt.Sprintf(` AND f.label ILIKE '%%' || $%d || '%%'`, len(args)+1)
		args = append(args, escapeLike(filter.Query))
	}

	query += ` ORDER BY f.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}

	return files, nil
}

func (r *FileRepository) MarkForDelete(ctx context.Context, id uuid.UUID, deleteAt time.Time, deletedBy uuid.UUID) error {
	// Both trash fields change in one statement; a re-mark refreshes the timer.
	const query = `UPDATE files SET scheduled_delete_at = $2, deleted_by = $3, updated_at = NOW()
				   WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, deleteAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark file for delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Restore(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE files SET scheduled_delete_at = NULL, deleted_by = NULL, updated_at = NOW()
				   WHERE id = $1 AND scheduled_delete_at IS NOT NULL`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore file: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Favorites referencing the file go with it via ON DELETE CASCADE.
	const query = `DELETE FROM files WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) ListExpired(ctx context.Context, now time.Time) ([]model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
			  WHERE scheduled_delete_at IS NOT NULL AND scheduled_delete_at <= $1
			  ORDER BY scheduled_delete_at ASC`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired files: %w", err)
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expired files: %w", err)
	}

	return files, nil
}

// escapeLike neutralizes LIKE metacharacters so a text query matches its
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func joinFileColumns() string {
	return `id, f.label, f.type, f.storage_key, f.org_id, f.author_id, f.scheduled_delete_at, f.deleted_by, f.created_at, f.updated_at`
}
