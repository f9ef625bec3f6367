package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// Directory maps external auth identities to user records and maintains
// their organization memberships.
type Directory struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewDirectory(userStore model.UserStore, logger *logger.Logger) *Directory {
	return &Directory{
		userStore: userStore,
		logger:    logger,
	}
}

// ResolveByToken looks up the user for an external identity token.
func (s *Directory) ResolveByToken(ctx context.Context, token string) (model.User, error) {
	user, err := s.userStore.GetByToken(ctx, token)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to resolve user by token: %w", err)
	}

	return user, nil
}

// ResolveByID looks up the user by internal id.
func (s *Directory) ResolveByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to resolve user by id: %w", err)
	}

	return user, nil
}

// Create inserts a new user with an empty membership set. A replayed create
// for an already-known token fails with ErrAlreadyExists, which the event
// ingestor treats as convergence rather than failure.
func (s *Directory) Create(ctx context.Context, token string, name string, avatarURL string) (model.User, error) {
	if token == "" {
		return model.User{}, &model.ValidationError{Field: "token", Reason: "must not be empty"}
	}

	user, err := s.userStore.Create(ctx, model.User{
		ID:        uuid.New(),
		Token:     token,
		Name:      name,
		AvatarURL: avatarURL,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "name", user.Name)

	return user, nil
}

// UpdateProfile overwrites name and avatar. Event ordering guarantees the
// user exists; an absent user surfaces as ErrNotFound.
func (s *Directory) UpdateProfile(ctx context.Context, token string, name string, avatarURL string) error {
	if err := s.userStore.UpdateProfile(ctx, token, name, avatarURL); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// Deactivate soft-deletes the user; deactivated users no longer resolve.
func (s *Directory) Deactivate(ctx context.Context, token string) error {
	if err := s.userStore.Deactivate(ctx, token); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	return nil
}

// AddMembership grants the user a role in an organization.
func (s *Directory) AddMembership(ctx context.Context, token string, orgID string, role model.Role) error {
	user, err := s.userStore.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resolve user by token: %w", err)
	}

	if err := s.userStore.AddMembership(ctx, user.ID, orgID, role); err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}

	return nil
}

// UpdateMembershipRole converges the user's role in an organization on the
// delivered value, creating the membership if it was never seen.
func (s *Directory) UpdateMembershipRole(ctx context.Context, token string, orgID string, role model.Role) error {
	user, err := s.userStore.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resolve user by token: %w", err)
	}

	if err := s.userStore.UpdateMembershipRole(ctx, user.ID, orgID, role); err != nil {
		return fmt.Errorf("failed to update membership role: %w", err)
	}

	return nil
}

// RemoveMembership revokes the user's role in an organization. Removing a
// membership that does not exist is a no-op.
func (s *Directory) RemoveMembership(ctx context.Context, token string, orgID string) error {
	user, err := s.userStore.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resolve user by token: %w", err)
	}

	if err := s.userStore.RemoveMembership(ctx, user.ID, orgID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	return nil
}
