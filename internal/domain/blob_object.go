package domain

import "time"

// Visibility controls anonymous read access to a stored object.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// BlobObject is the metadata kept for every minted upload handle.
type BlobObject struct {
	ID          string
	StorageKey  string
	OwnerUserID string
	Visibility  Visibility
	SizeBytes   *int64
	UploadedAt  *time.Time
	CreatedAt   time.Time
}

// Uploaded reports whether bytes were durably stored for the object.
func (b *BlobObject) Uploaded() bool {
	return b.UploadedAt != nil
}

// UploadHandle is returned to the client when it asks to upload a file.
type UploadHandle struct {
	ID         string
	UploadURL  string
	ObjectPath string
}
