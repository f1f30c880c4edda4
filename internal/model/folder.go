package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FolderStore defines persistence operations for folders. Ownership is part
// of every lookup so another user's folder behaves exactly like a missing one.
type FolderStore interface {
	Create(ctx context.Context, folder Folder) (Folder, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (Folder, error)
	ListByParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]Folder, error)
}

// Folder is a named container in a user's vault. A nil ParentID means the
// folder sits at the vault root.
type Folder struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
}
