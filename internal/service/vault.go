package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
)

const (
	// MaxUploadBytes bounds direct (server-relayed) uploads.
	MaxUploadBytes = 25 * 1024 * 1024
	// MaxSignedUploadBytes bounds uploads that go straight to storage via a
	// signed URL.
	MaxSignedUploadBytes = 100 * 1024 * 1024
	// SignedURLTTL is the lifetime of presigned upload/download URLs.
	SignedURLTTL = 120 * time.Second

	maxSafeFilenameLen = 120
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Vault manages a user's folders and files on top of the metadata store and
// object storage. Every operation filters by the owner, so a resource owned
// by someone else is indistinguishable from a missing one.
type Vault struct {
	folderStore model.FolderStore
	fileStore   model.FileStore
	storage     model.Storage
	logger      *logger.Logger
}

// NewVault creates a new vault service.
func NewVault(
	folderStore model.FolderStore,
	fileStore model.FileStore,
	storage model.Storage,
	logger *logger.Logger,
) *Vault {
	return &Vault{
		folderStore: folderStore,
		fileStore:   fileStore,
		storage:     storage,
		logger:      logger,
	}
}

// buildObjectKey namespaces the object under the owner and keeps the original
// filename recognizable while stripping anything unsafe for a storage key.
func buildObjectKey(ownerID uuid.UUID, filename string) string {
	safe := unsafeFilenameChars.ReplaceAllString(filename, "_")
	if len(safe) > maxSafeFilenameLen {
		safe = safe[:maxSafeFilenameLen]
	}
	return fmt.Sprintf("%s/%d-%s", ownerID, time.Now().UnixMilli(), safe)
}

// CreateFolder creates a folder under parentID (nil = root). The parent must
// belong to the same owner; a duplicate name in the same location is
// ErrConflict.
func (s *Vault) CreateFolder(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (model.Folder, error) {
	if parentID != nil {
		if _, err := s.folderStore.GetByIDAndOwner(ctx, *parentID, ownerID); err != nil {
			return model.Folder{}, fmt.Errorf("failed to get parent folder: %w", err)
		}
	}

	folder, err := s.folderStore.Create(ctx, model.Folder{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Folder{}, fmt.Errorf("failed to create folder: %w", err)
	}

	s.logger.Info("Vault service: folder created",
		"folder_id", folder.ID,
		"user_id", ownerID)

	return folder, nil
}

// ListFolders returns the owner's folders under parentID (nil = root),
// ordered by name.
func (s *Vault) ListFolders(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]model.Folder, error) {
	folders, err := s.folderStore.ListByParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// ListFiles returns the owner's files in folderID (nil = root), newest first.
func (s *Vault) ListFiles(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]model.File, error) {
	files, err := s.fileStore.ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// UploadParams contains parameters for a direct upload.
type UploadParams struct {
	OwnerID     uuid.UUID
	FolderID    *uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
	Data        io.Reader
}

// Upload relays the file body into object storage and records its metadata.
// The two writes are not transactional: if the record write fails the object
// is deleted best-effort, and a failure of that cleanup leaves an orphaned
// object rather than a broken record.
func (s *Vault) Upload(ctx context.Context, params UploadParams) (model.File, error) {
	if params.SizeBytes > MaxUploadBytes {
		return model.File{}, model.ErrFileTooLarge
	}

	if params.FolderID != nil {
		if _, err := s.folderStore.GetByIDAndOwner(ctx, *params.FolderID, params.OwnerID); err != nil {
			return model.File{}, fmt.Errorf("failed to get folder: %w", err)
		}
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := buildObjectKey(params.OwnerID, params.Filename)

	if err := s.storage.Upload(ctx, key, params.Data, params.SizeBytes, contentType); err != nil {
		return model.File{}, fmt.Errorf("failed to upload object: %w", err)
	}

	file, err := s.fileStore.Create(ctx, model.File{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		FolderID:    params.FolderID,
		ObjectKey:   key,
		Filename:    params.Filename,
		ContentType: contentType,
		SizeBytes:   params.SizeBytes,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error("Vault service: failed to delete orphaned object",
				"object_key", key,
				"error", delErr.Error())
		}
		return model.File{}, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.Info("Vault service: file uploaded",
		"file_id", file.ID,
		"user_id", params.OwnerID,
		"size_bytes", params.SizeBytes)

	return file, nil
}

// SignUploadParams contains parameters for a client-side upload.
type SignUploadParams struct {
	OwnerID     uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
}

// SignedUpload is a presigned PUT URL bound to a freshly created file record.
type SignedUpload struct {
	URL       string
	FileID    uuid.UUID
	ObjectKey string
	ExpiresIn time.Duration
}

// SignUpload creates the file record up front and hands the client a
// time-limited URL to push the bytes directly to storage.
func (s *Vault) SignUpload(ctx context.Context, params SignUploadParams) (SignedUpload, error) {
	if params.SizeBytes > MaxSignedUploadBytes {
		return SignedUpload{}, model.ErrFileTooLarge
	}

	key := buildObjectKey(params.OwnerID, params.Filename)

	url, err := s.storage.SignedPutURL(ctx, key, SignedURLTTL)
	if err != nil {
		return SignedUpload{}, fmt.Errorf("failed to sign upload url: %w", err)
	}

	file, err := s.fileStore.Create(ctx, model.File{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		ObjectKey:   key,
		Filename:    params.Filename,
		ContentType: params.ContentType,
		SizeBytes:   params.SizeBytes,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return SignedUpload{}, fmt.Errorf("failed to create file record: %w", err)
	}

	return SignedUpload{
		URL:       url,
		FileID:    file.ID,
		ObjectKey: key,
		ExpiresIn: SignedURLTTL,
	}, nil
}

// SignDownload returns a time-limited GET URL for an owned file.
func (s *Vault) SignDownload(ctx context.Context, ownerID, fileID uuid.UUID) (string, error) {
	file, err := s.fileStore.GetByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", err)
	}

	url, err := s.storage.SignedGetURL(ctx, file.ObjectKey, SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign download url: %w", err)
	}

	return url, nil
}

// MoveFile reparents an owned file into an owned folder (nil = root).
func (s *Vault) MoveFile(ctx context.Context, ownerID, fileID uuid.UUID, folderID *uuid.UUID) (model.File, error) {
	file, err := s.fileStore.GetByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to get file: %w", err)
	}

	if folderID != nil {
		if _, err := s.folderStore.GetByIDAndOwner(ctx, *folderID, ownerID); err != nil {
			return model.File{}, fmt.Errorf("failed to get folder: %w", err)
		}
	}

	if err := s.fileStore.Move(ctx, file.ID, folderID); err != nil {
		return model.File{}, fmt.Errorf("failed to move file: %w", err)
	}

	file.FolderID = folderID
	return file, nil
}

// DeleteFile removes the object and then the record. A storage failure is
// logged and does not block metadata deletion.
func (s *Vault) DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) error {
	file, err := s.fileStore.GetByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.storage.Delete(ctx, file.ObjectKey); err != nil {
		s.logger.Error("Vault service: failed to delete object from storage",
			"object_key", file.ObjectKey,
			"error", err.Error())
	}

	if err := s.fileStore.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info("Vault service: file deleted",
		"file_id", file.ID,
		"user_id", ownerID)

	return nil
}
