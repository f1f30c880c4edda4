package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for vault files. As with folders,
// every lookup filters by owner.
type FileStore interface {
	Create(ctx context.Context, file File) (File, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (File, error)
	ListByFolder(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]File, error)
	Move(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// File is a stored object's metadata. ObjectKey points at the blob in object
// storage; a nil FolderID means the file sits at the vault root.
type File struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	FolderID    *uuid.UUID
	ObjectKey   string
	Filename    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
