package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blacknode/vault-server/internal/model"
)

var _ model.FolderStore = (*FolderRepository)(nil)

type FolderRepository struct {
	db *Connection
}

func NewFolderRepository(db *Connection) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, folder model.Folder) (model.Folder, error) {
	const query = `
        INSERT INTO folders (id, user_id, name, parent_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.Exec(ctx, query,
		folder.ID, folder.OwnerID, folder.Name, folder.ParentID, folder.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Folder{}, model.ErrConflict
		}
		return model.Folder{}, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (model.Folder, error) {
	const query = `
        SELECT id, user_id, name, parent_id, created_at
        FROM folders WHERE id = $1 AND user_id = $2
    `
	var folder model.Folder
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID, &folder.OwnerID, &folder.Name, &folder.ParentID, &folder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Folder{}, model.ErrNotFound
		}
		return model.Folder{}, fmt.Errorf("failed to get folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) ListByParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]model.Folder, error) {
	const query = `
        SELECT id, user_id, name, parent_id, created_at
        FROM folders
        WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		var folder model.Folder
		if err := rows.Scan(
			&folder.ID, &folder.OwnerID, &folder.Name, &folder.ParentID, &folder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}
	return folders, nil
}
