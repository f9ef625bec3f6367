package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for file metadata records.
type FileStore interface {
	Create(ctx context.Context, file File) (File, error)
	GetByID(ctx context.Context, id uuid.UUID) (File, error)
	ListByOrg(ctx context.Context, orgID string, filter ListFilter, userID uuid.UUID) ([]File, error)
	// MarkForDelete sets both trash fields in a single atomic update.
	MarkForDelete(ctx context.Context, id uuid.UUID, deleteAt time.Time, deletedBy uuid.UUID) error
	// Restore clears both trash fields; only a file in trash matches.
	Restore(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListExpired(ctx context.Context, now time.Time) ([]File, error)
}

// File represents stored file metadata. Content lives in the object store
// and is addressed by StorageKey.
type File struct {
	ID                uuid.UUID
	Label             string
	Type              FileType
	StorageKey        string
	OrgID             string
	AuthorID          uuid.UUID
	ScheduledDeleteAt *time.Time
	DeletedBy         *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// InTrash reports whether the file is pending deletion.
func (f File) InTrash() bool {
	return f.ScheduledDeleteAt != nil
}

// FileWithURL is a file enriched with a resolved retrieval URL.
// URL is empty when the object store cannot resolve the storage key.
type FileWithURL struct {
	File
	URL string
}

// ListKind selects which view of an organization's files to return.
type ListKind string

const (
	// ListKindAll returns files not in trash.
	ListKindAll ListKind = "all"
	// ListKindFavorites returns the requester's favorited files, excluding trash.
	ListKindFavorites ListKind = "favorites"
	// ListKindTrash returns only files pending deletion.
	ListKindTrash ListKind = "trash"
)

// ParseListKind maps a request parameter to a ListKind. An empty value
// means the default view.
func ParseListKind(s string) (ListKind, error) {
	switch s {
	case "", string(ListKindAll):
		return ListKindAll, nil
	case string(ListKindFavorites):
		return ListKindFavorites, nil
	case string(ListKindTrash):
		return ListKindTrash, nil
	default:
		return "", &ValidationError{Field: "list", Reason: "unknown list kind " + s}
	}
}

// ListFilter narrows a file listing.
type ListFilter struct {
	Kind ListKind
	// Query is a case-insensitive substring match on the label,
	// applied after kind filtering.
	Query string
}

// FileType enumerates file format categories.
type FileType string

const (
	FileTypeAudio FileType = "audio"
	FileTypeBin   FileType = "bin"
	FileTypeCSV   FileType = "csv"
	FileTypeDoc   FileType = "doc"
	FileTypeDocx  FileType = "docx"
	FileTypeHTML  FileType = "html"
	FileTypeImage FileType = "image"
	FileTypeJSON  FileType = "json"
	FileTypePDF   FileType = "pdf"
	FileTypePPT   FileType = "ppt"
	FileTypePPTX  FileType = "pptx"
	FileTypeRAR   FileType = "rar"
	FileTypeTxt   FileType = "txt"
	FileTypeVideo FileType = "video"
	FileTypeXLS   FileType = "xls"
	FileTypeXLSX  FileType = "xlsx"
	FileTypeXML   FileType = "xml"
	FileTypeZip   FileType = "zip"
	FileTypeOther FileType = "other"
)

var mimeTypes = map[string]FileType{
	"application/octet-stream":      FileTypeBin,
	"text/csv":                      FileTypeCSV,
	"application/msword":            FileTypeDoc,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDocx,
	"text/html":                  FileTypeHTML,
	"application/json":           FileTypeJSON,
	"application/pdf":            FileTypePDF,
	"application/vnd.ms-powerpoint": FileTypePPT,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": FileTypePPTX,
	"application/vnd.rar":           FileTypeRAR,
	"application/x-rar-compressed":  FileTypeRAR,
	"text/plain":                    FileTypeTxt,
	"application/vnd.ms-excel":      FileTypeXLS,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FileTypeXLSX,
	"application/xml":           FileTypeXML,
	"text/xml":                  FileTypeXML,
	"application/zip":           FileTypeZip,
	"application/x-zip-compressed": FileTypeZip,
}

// FileTypeFromMIME derives the format category from a MIME type,
// by prefix for the media families and exact match otherwise.
// Unrecognized types map to FileTypeOther.
func FileTypeFromMIME(mime string) FileType {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch {
	case strings.HasPrefix(mime, "audio/"):
		return FileTypeAudio
	case strings.HasPrefix(mime, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mime, "video/"):
		return FileTypeVideo
	}
	if t, ok := mimeTypes[mime]; ok {
		return t
	}
	return FileTypeOther
}
