package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blacknode/vault-server/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file model.File) (model.File, error) {
	const query = `
        INSERT INTO files (id, user_id, folder_id, object_key, filename, content_type, size_bytes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := r.db.Exec(ctx, query,
		file.ID, file.OwnerID, file.FolderID, file.ObjectKey,
		file.Filename, file.ContentType, file.SizeBytes, file.CreatedAt,
	)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

func (r *FileRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (model.File, error) {
	const query = `
        SELECT id, user_id, folder_id, object_key, filename, content_type, size_bytes, created_at
        FROM files WHERE id = $1 AND user_id = $2
    `
	var file model.File
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&file.ID, &file.OwnerID, &file.FolderID, &file.ObjectKey,
		&file.Filename, &file.ContentType, &file.SizeBytes, &file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]model.File, error) {
	const query = `
        SELECT id, user_id, folder_id, object_key, filename, content_type, size_bytes, created_at
        FROM files
        WHERE user_id = $1 AND folder_id IS NOT DISTINCT FROM $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var file model.File
		if err := rows.Scan(
			&file.ID, &file.OwnerID, &file.FolderID, &file.ObjectKey,
			&file.Filename, &file.ContentType, &file.SizeBytes, &file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

func (r *FileRepository) Move(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) error {
	const query = `UPDATE files SET folder_id = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, folderID)
	if err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM files WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
