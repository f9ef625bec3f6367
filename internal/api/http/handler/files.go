package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
	"github.com/filedrive/filedrive-server/internal/service"
)

// FileService defines business operations for file management.
type FileService interface {
	IssueUploadTarget(ctx context.Context, token string) (model.UploadTarget, error)
	CreateFile(ctx context.Context, token string, params service.CreateFileParams) (model.File, error)
	ListFiles(ctx context.Context, token string, orgID string, filter model.ListFilter) ([]model.FileWithURL, error)
	IsFavorited(ctx context.Context, token string, fileID uuid.UUID, userID uuid.UUID) (bool, error)
	ToggleFavorite(ctx context.Context, token string, fileID uuid.UUID) error
	MarkForDelete(ctx context.Context, token string, fileID uuid.UUID) error
	Restore(ctx context.Context, token string, fileID uuid.UUID) error
	RemoveFile(ctx context.Context, token string, fileID uuid.UUID) error
	ClearTrash(ctx context.Context, token string, orgID string, fileIDs []uuid.UUID) (service.ClearTrashResult, error)
}

// Files handles HTTP endpoints for file operations.
type Files struct {
	fileService    FileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewFiles creates a new Files handler.
func NewFiles(fileService FileService, contextManager model.ContextManager, logger *logger.Logger) *Files {
	return &Files{
		fileService:    fileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type uploadTargetResponse struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

type createFileRequest struct {
	Label      string `json:"label"`
	MIMEType   string `json:"mime_type"`
	StorageKey string `json:"storage_key"`
	OrgID      string `json:"org_id"`
}

type fileResponse struct {
	ID                uuid.UUID  `json:"id"`
	Label             string     `json:"label"`
	Type              string     `json:"type"`
	OrgID             string     `json:"org_id"`
	AuthorID          uuid.UUID  `json:"author_id"`
	ScheduledDeleteAt *time.Time `json:"scheduled_delete_at,omitempty"`
	DeletedBy         *uuid.UUID `json:"deleted_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	URL               string     `json:"url,omitempty"`
}

type favoriteResponse struct {
	Favorited bool `json:"favorited"`
}

type clearTrashRequest struct {
	FileIDs []uuid.UUID `json:"file_ids"`
}

type clearTrashResponse struct {
	Purged  int `json:"purged"`
	Skipped int `json:"skipped"`
}

func fileToResponse(file model.File, url string) fileResponse {
	return fileResponse{
		ID:                file.ID,
		Label:             file.Label,
		Type:              string(file.Type),
		OrgID:             file.OrgID,
		AuthorID:          file.AuthorID,
		ScheduledDeleteAt: file.ScheduledDeleteAt,
		DeletedBy:         file.DeletedBy,
		CreatedAt:         file.CreatedAt,
		URL:               url,
	}
}

func (h *Files) principal(r *http.Request) (string, error) {
	token, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		return "", model.ErrUnauthenticated
	}
	return token, nil
}

func fileIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		return uuid.Nil, &model.ValidationError{Field: "file_id", Reason: "must be a UUID"}
	}
	return id, nil
}

// IssueUploadTarget returns a presigned blob upload destination.
func (h *Files) IssueUploadTarget(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	target, err := h.fileService.IssueUploadTarget(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to issue upload target", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadTargetResponse{StorageKey: target.Key, UploadURL: target.URL})
}

// Create registers an uploaded blob as a file.
func (h *Files) Create(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	file, err := h.fileService.CreateFile(r.Context(), token, service.CreateFileParams{
		Label:      req.Label,
		MIMEType:   req.MIMEType,
		StorageKey: req.StorageKey,
		OrgID:      req.OrgID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fileToResponse(file, ""))
}

// List returns the organization's files for the requested view.
func (h *Files) List(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		writeError(w, &model.ValidationError{Field: "org_id", Reason: "must not be empty"})
		return
	}

	kind, err := model.ParseListKind(r.URL.Query().Get("list"))
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.fileService.ListFiles(r.Context(), token, orgID, model.ListFilter{
		Kind:  kind,
		Query: r.URL.Query().Get("query"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileToResponse(f.File, f.URL))
	}

	writeJSON(w, http.StatusOK, out)
}

// CheckFavorite reports whether a user has favorited the file.
func (h *Files) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, &model.ValidationError{Field: "user_id", Reason: "must be a UUID"})
		return
	}

	favorited, err := h.fileService.IsFavorited(r.Context(), token, fileID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favoriteResponse{Favorited: favorited})
}

// ToggleFavorite flips the principal's favorite mark on the file.
func (h *Files) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.fileService.ToggleFavorite(r.Context(), token, fileID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Trash moves the file to trash.
func (h *Files) Trash(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.fileService.MarkForDelete(r.Context(), token, fileID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore brings a trashed file back.
func (h *Files) Restore(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.fileService.Restore(r.Context(), token, fileID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the file and its blob immediately.
func (h *Files) Delete(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.fileService.RemoveFile(r.Context(), token, fileID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearTrash purges selected files from the organization's trash.
func (h *Files) ClearTrash(w http.ResponseWriter, r *http.Request) {
	token, err := h.principal(r)
	if err != nil {
		writeError(w, err)
		return
	}

	orgID := chi.URLParam(r, "orgID")

	var req clearTrashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	result, err := h.fileService.ClearTrash(r.Context(), token, orgID, req.FileIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clearTrashResponse{Purged: result.Purged, Skipped: result.Skipped})
}
