package model

import "context"

// UploadTarget is a pre-authorized destination for a single blob upload.
type UploadTarget struct {
	// Key is the storage reference the client reports back on upload completion.
	Key string
	// URL accepts a PUT of the blob content until it expires.
	URL string
}

// ObjectStore is the external blob storage collaborator. The core never
// inspects blob content; it only issues upload targets, resolves storage
// keys to retrieval URLs and deletes blobs alongside file purges.
type ObjectStore interface {
	IssueUploadTarget(ctx context.Context) (UploadTarget, error)
	// ResolveURL returns an empty string without error when the key
	// cannot be resolved.
	ResolveURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
