package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive-server/internal/access"
	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// File implements the file registry, the favorite index and the
// soft-delete lifecycle. Every operation takes the principal's external
// identity token explicitly and resolves it before touching state.
type File struct {
	fileStore     model.FileStore
	favoriteStore model.FavoriteStore
	userStore     model.UserStore
	objectStore   model.ObjectStore
	logger        *logger.Logger
	retention     time.Duration
	now           func() time.Time
}

func NewFile(
	fileStore model.FileStore,
	favoriteStore model.FavoriteStore,
	userStore model.UserStore,
	objectStore model.ObjectStore,
	logger *logger.Logger,
	retention time.Duration,
) *File {
	return &File{
		fileStore:     fileStore,
		favoriteStore: favoriteStore,
		userStore:     userStore,
		objectStore:   objectStore,
		logger:        logger,
		retention:     retention,
		now:           time.Now,
	}
}

// CreateFileParams contains validated input to create a file record.
type CreateFileParams struct {
	Label      string
	MIMEType   string
	StorageKey string
	OrgID      string
}

// ClearTrashResult reports a batch purge outcome.
type ClearTrashResult struct {
	Purged  int
	Skipped int
}

func (s *File) resolvePrincipal(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.ErrUnauthenticated
	}

	user, err := s.userStore.GetByToken(ctx, token)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to resolve principal: %w", err)
	}

	return user, nil
}

// getModeratedFile loads the file and requires moderation rights on it.
func (s *File) getModeratedFile(ctx context.Context, token string, fileID uuid.UUID) (model.File, model.User, error) {
	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return model.File{}, model.User{}, err
	}

	file, err := s.fileStore.GetByID(ctx, fileID)
	if err != nil {
		return model.File{}, model.User{}, fmt.Errorf("failed to get file: %w", err)
	}

	if !access.CanAccessOrg(user, file.OrgID) {
		return model.File{}, model.User{}, model.NewAccessError(model.ReasonNoOrgAccess)
	}
	if !access.CanModerate(user, file) {
		return model.File{}, model.User{}, model.NewAccessError(model.ReasonNoModeration)
	}

	return file, user, nil
}

// IssueUploadTarget returns a pre-authorized blob upload destination for an
// authenticated principal. The returned key becomes the storage reference
// of the subsequent CreateFile call.
func (s *File) IssueUploadTarget(ctx context.Context, token string) (model.UploadTarget, error) {
	if _, err := s.resolvePrincipal(ctx, token); err != nil {
		return model.UploadTarget{}, err
	}

	target, err := s.objectStore.IssueUploadTarget(ctx)
	if err != nil {
		return model.UploadTarget{}, fmt.Errorf("failed to issue upload target: %w", err)
	}

	return target, nil
}

// CreateFile registers an uploaded blob as a file in the organization.
func (s *File) CreateFile(ctx context.Context, token string, params CreateFileParams) (model.File, error) {
	if params.Label == "" {
		return model.File{}, &model.ValidationError{Field: "label", Reason: "must not be empty"}
	}
	if params.StorageKey == "" {
		return model.File{}, &model.ValidationError{Field: "storage_key", Reason: "must not be empty"}
	}
	if params.OrgID == "" {
		return model.File{}, &model.ValidationError{Field: "org_id", Reason: "must not be empty"}
	}

	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return model.File{}, err
	}

	if !access.CanAccessOrg(user, params.OrgID) {
		return model.File{}, model.NewAccessError(model.ReasonNoOrgAccess)
	}

	file, err := s.fileStore.Create(ctx, model.File{
		ID:         uuid.New(),
		Label:      params.Label,
		Type:       model.FileTypeFromMIME(params.MIMEType),
		StorageKey: params.StorageKey,
		OrgID:      params.OrgID,
		AuthorID:   user.ID,
	})
	if err != nil {
		return model.File{}, fmt.Errorf("failed to create file: %w", err)
	}

	s.logger.Info("file created", "file_id", file.ID, "org_id", file.OrgID, "type", file.Type)

	return file, nil
}

// ListFiles returns the organization's files for the requested view. An
// inaccessible organization yields an empty listing rather than an error.
// Each file is enriched with a retrieval URL; files whose blob cannot be
// resolved carry an empty URL instead of failing the listing.
func (s *File) ListFiles(ctx context.Context, token string, orgID string, filter model.ListFilter) ([]model.FileWithURL, error) {
	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessOrg(user, orgID) {
		return []model.FileWithURL{}, nil
	}

	files, err := s.fileStore.ListByOrg(ctx, orgID, filter, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	enriched := make([]model.FileWithURL, 0, len(files))
	for _, file := range files {
		url, err := s.objectStore.ResolveURL(ctx, file.StorageKey)
		if err != nil {
			s.logger.Warn("failed to resolve retrieval url", "file_id", file.ID, "error", err)
			url = ""
		}
		enriched = append(enriched, model.FileWithURL{File: file, URL: url})
	}

	return enriched, nil
}

// IsFavorited reports whether the given user has favorited the file.
func (s *File) IsFavorited(ctx context.Context, token string, fileID uuid.UUID, userID uuid.UUID) (bool, error) {
	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return false, err
	}

	file, err := s.fileStore.GetByID(ctx, fileID)
	if err != nil {
		return false, fmt.Errorf("failed to get file: %w", err)
	}

	if !access.CanAccessFile(user, file) {
		return false, model.NewAccessError(model.ReasonNoFileAccess)
	}

	favorited, err := s.favoriteStore.Exists(ctx, fileID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return favorited, nil
}

// ToggleFavorite flips the principal's favorite mark on the file.
func (s *File) ToggleFavorite(ctx context.Context, token string, fileID uuid.UUID) error {
	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return err
	}

	file, err := s.fileStore.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if !access.CanAccessFile(user, file) {
		return model.NewAccessError(model.ReasonNoFileAccess)
	}

	favorited, err := s.favoriteStore.Exists(ctx, fileID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}

	if favorited {
		if err := s.favoriteStore.Remove(ctx, fileID, user.ID); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		return nil
	}

	if err := s.favoriteStore.Add(ctx, fileID, user.ID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// MarkForDelete moves the file to trash: it stays restorable until the
// retention window elapses. Marking an already-trashed file refreshes the
// timer.
func (s *File) MarkForDelete(ctx context.Context, token string, fileID uuid.UUID) error {
	file, user, err := s.getModeratedFile(ctx, token, fileID)
	if err != nil {
		return err
	}

	deleteAt := s.now().Add(s.retention)
	if err := s.fileStore.MarkForDelete(ctx, file.ID, deleteAt, user.ID); err != nil {
		return fmt.Errorf("failed to mark file for delete: %w", err)
	}

	s.logger.Info("file moved to trash", "file_id", file.ID, "delete_at", deleteAt, "by", user.ID)

	return nil
}

// Restore brings a trashed file back. Only a file pending deletion can be
// restored.
func (s *File) Restore(ctx context.Context, token string, fileID uuid.UUID) error {
	file, _, err := s.getModeratedFile(ctx, token, fileID)
	if err != nil {
		return err
	}

	if !file.InTrash() {
		return &model.ValidationError{Field: "file_id", Reason: "file is not in trash"}
	}

	if err := s.fileStore.Restore(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to restore file: %w", err)
	}

	s.logger.Info("file restored", "file_id", file.ID)

	return nil
}

// RemoveFile deletes the file record and its blob immediately.
func (s *File) RemoveFile(ctx context.Context, token string, fileID uuid.UUID) error {
	file, _, err := s.getModeratedFile(ctx, token, fileID)
	if err != nil {
		return err
	}

	if err := s.purge(ctx, file); err != nil {
		return err
	}

	return nil
}

// ClearTrash purges the given files from the organization's trash. Files
// the principal cannot moderate, files outside the organization and files
// not pending deletion are skipped and counted; each purge succeeds or is
// skipped independently of the others.
func (s *File) ClearTrash(ctx context.Context, token string, orgID string, fileIDs []uuid.UUID) (ClearTrashResult, error) {
	user, err := s.resolvePrincipal(ctx, token)
	if err != nil {
		return ClearTrashResult{}, err
	}

	var result ClearTrashResult
	for _, fileID := range fileIDs {
		file, err := s.fileStore.GetByID(ctx, fileID)
		if errors.Is(err, model.ErrNotFound) {
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to get file: %w", err)
		}

		if file.OrgID != orgID || !file.InTrash() || !access.CanModerate(user, file) {
			result.Skipped++
			continue
		}

		if err := s.purge(ctx, file); err != nil {
			s.logger.Error("failed to purge file from trash", "file_id", file.ID, "error", err)
			result.Skipped++
			continue
		}
		result.Purged++
	}

	return result, nil
}

// purge hard-deletes the file record and its blob. The row delete is the
// linearization point: a file already purged by a concurrent caller shows
// up as ErrNotFound and the blob is left to whoever won.
func (s *File) purge(ctx context.Context, file model.File) error {
	if err := s.fileStore.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.objectStore.Delete(ctx, file.StorageKey); err != nil {
		// The metadata record is gone; an orphaned blob is recoverable
		// operationally and must not fail the purge.
		s.logger.Error("failed to delete blob", "storage_key", file.StorageKey, "error", err)
	}

	return nil
}
