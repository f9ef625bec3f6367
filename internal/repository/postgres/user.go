package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/filedrive/filedrive-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (model.User, error) {
	var user model.User
	query := `SELECT id, token, name, avatar_url, created_at, updated_at, deleted_at
			  FROM users WHERE token = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Token, &user.Name, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by token: %w", err)
	}

	if err := r.loadMemberships(ctx, &user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, token, name, avatar_url, created_at, updated_at, deleted_at
			  FROM users WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Token, &user.Name, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := r.loadMemberships(ctx, &user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, token, name, avatar_url)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, token, name, avatar_url, created_at, updated_at, deleted_at`

	var saved model.User
	err := r.db.QueryRow(ctx, query, user.ID, user.Token, user.Name, user.AvatarURL).Scan(
		&saved.ID, &saved.Token, &saved.Name, &saved.AvatarURL,
		&saved.CreatedAt, &saved.UpdatedAt, &saved.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The token is the natural idempotency key for user creation.
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, token string, name string, avatarURL string) error {
	const query = `UPDATE users SET name = $2, avatar_url = $3, updated_at = NOW()
				   WHERE token = $1 AND deleted_at IS NULL`

	cmd, err := r.db.Exec(ctx, query, token, name, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, token string) error {
	const query = `UPDATE users SET deleted_at = NOW(), updated_at = NOW()
				   WHERE token = $1 AND deleted_at IS NULL`

	cmd, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddMembership(ctx context.Context, userID uuid.UUID, orgID string, role model.Role) error {
	// Replays of the same membership event converge on the delivered role.
	const query = `INSERT INTO memberships (user_id, org_id, role)
				   VALUES ($1, $2, $3)
				   ON CONFLICT (user_id, org_id) DO UPDATE SET role = EXCLUDED.role`

	if _, err := r.db.Exec(ctx, query, userID, orgID, string(role)); err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateMembershipRole(ctx context.Context, userID uuid.UUID, orgID string, role model.Role) error {
	// Upsert rather than update: a role change for a membership we never
	// saw created still converges on the delivered role.
	return r.AddMembership(ctx, userID, orgID, role)
}

func (r *UserRepository) RemoveMembership(ctx context.Context, userID uuid.UUID, orgID string) error {
	const query = `DELETE FROM memberships WHERE user_id = $1 AND org_id = $2`

	// Removing an absent membership is a no-op.
	if _, err := r.db.Exec(ctx, query, userID, orgID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

func (r *UserRepository) loadMemberships(ctx context.Context, user *model.User) error {
	query := `SELECT org_id, role FROM memberships WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.Membership
		var role string
		if err := rows.Scan(&m.OrgID, &role); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Role = model.Role(role)
		user.Memberships = append(user.Memberships, m)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read memberships: %w", err)
	}

	return nil
}
