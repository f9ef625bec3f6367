package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// DirectoryWriter is the slice of the Directory the ingestor dispatches to.
type DirectoryWriter interface {
	Create(ctx context.Context, token string, name string, avatarURL string) (model.User, error)
	UpdateProfile(ctx context.Context, token string, name string, avatarURL string) error
	Deactivate(ctx context.Context, token string) error
	AddMembership(ctx context.Context, token string, orgID string, role model.Role) error
	UpdateMembershipRole(ctx context.Context, token string, orgID string, role model.Role) error
	RemoveMembership(ctx context.Context, token string, orgID string) error
}

// Ingest applies normalized identity-provider events to the directory.
// Signature verification happens at the transport boundary before events
// reach this service.
type Ingest struct {
	directory DirectoryWriter
	logger    *logger.Logger
}

func NewIngest(directory DirectoryWriter, logger *logger.Logger) *Ingest {
	return &Ingest{
		directory: directory,
		logger:    logger,
	}
}

// ProcessBatch dispatches each event to the directory. Unrecognized kinds
// and malformed events are skipped; store failures abort the batch so the
// event source redelivers it.
func (s *Ingest) ProcessBatch(ctx context.Context, events []model.IdentityEvent) error {
	for _, event := range events {
		if err := s.processEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to process %s event: %w", event.Kind, err)
		}
	}

	return nil
}

func (s *Ingest) processEvent(ctx context.Context, event model.IdentityEvent) error {
	if event.Token == "" {
		s.logger.Warn("skipping identity event without token", "kind", event.Kind)
		return nil
	}

	switch event.Kind {
	case model.EventUserCreated:
		_, err := s.directory.Create(ctx, event.Token, event.Name, event.AvatarURL)
		return s.tolerateSkippable(err, event)

	case model.EventUserUpdated:
		err := s.directory.UpdateProfile(ctx, event.Token, event.Name, event.AvatarURL)
		return s.tolerateSkippable(err, event)

	case model.EventUserDeleted:
		err := s.directory.Deactivate(ctx, event.Token)
		return s.tolerateSkippable(err, event)

	case model.EventMembershipAdded:
		role, err := model.ParseRole(event.Role)
		if err != nil {
			s.logger.Warn("skipping membership event with unknown role", "kind", event.Kind, "role", event.Role)
			return nil
		}
		return s.tolerateSkippable(s.directory.AddMembership(ctx, event.Token, event.OrgID, role), event)

	case model.EventMembershipUpdated:
		role, err := model.ParseRole(event.Role)
		if err != nil {
			s.logger.Warn("skipping membership event with unknown role", "kind", event.Kind, "role", event.Role)
			return nil
		}
		return s.tolerateSkippable(s.directory.UpdateMembershipRole(ctx, event.Token, event.OrgID, role), event)

	case model.EventMembershipRemoved:
		return s.tolerateSkippable(s.directory.RemoveMembership(ctx, event.Token, event.OrgID), event)

	default:
		s.logger.Debug("ignoring unrecognized identity event", "kind", event.Kind)
		return nil
	}
}

// tolerateSkippable downgrades per-event NotFound, AlreadyExists and
// validation failures to a skip: redelivering the batch would not make them
// succeed. A replayed create in particular must converge, not wedge the
// batch in a redelivery loop.
func (s *Ingest) tolerateSkippable(err error, event model.IdentityEvent) error {
	if err == nil {
		return nil
	}

	var validationErr *model.ValidationError
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrAlreadyExists) || errors.As(err, &validationErr) {
		s.logger.Warn("skipping unapplicable identity event", "kind", event.Kind, "error", err)
		return nil
	}

	return err
}
