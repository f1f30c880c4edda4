package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appctx "github.com/blacknode/vault-server/internal/api/http/context"
	"github.com/blacknode/vault-server/internal/logger"
	"github.com/blacknode/vault-server/internal/model"
	"github.com/blacknode/vault-server/internal/service"
)

// VaultService defines folder and file operations scoped to an owner.
type VaultService interface {
	CreateFolder(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (model.Folder, error)
	ListFolders(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]model.Folder, error)
	ListFiles(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]model.File, error)
	Upload(ctx context.Context, params service.UploadParams) (model.File, error)
	SignUpload(ctx context.Context, params service.SignUploadParams) (service.SignedUpload, error)
	SignDownload(ctx context.Context, ownerID, fileID uuid.UUID) (string, error)
	MoveFile(ctx context.Context, ownerID, fileID uuid.UUID, folderID *uuid.UUID) (model.File, error)
	DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) error
}

// Vault handles HTTP endpoints for folders and files.
type Vault struct {
	service        VaultService
	contextManager *appctx.Manager
	logger         *logger.Logger
}

// NewVault creates a new Vault handler.
func NewVault(service VaultService, contextManager *appctx.Manager, logger *logger.Logger) *Vault {
	return &Vault{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Vault) user(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
	}
	return user, ok
}

type folderResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

func toFolderResponse(f model.Folder) folderResponse {
	return folderResponse{ID: f.ID, Name: f.Name, ParentID: f.ParentID}
}

type fileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	SizeBytes   int64      `json:"sizeBytes"`
	FolderID    *uuid.UUID `json:"folderId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toFileResponse(f model.File) fileResponse {
	return fileResponse{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		FolderID:    f.FolderID,
		CreatedAt:   f.CreatedAt,
	}
}

type createFolderRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	ParentID *uuid.UUID `json:"parentId"`
}

// CreateFolder creates a folder under the given parent, or at the root.
func (h *Vault) CreateFolder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var req createFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	folder, err := h.service.CreateFolder(r.Context(), user.ID, req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFolderResponse(folder))
}

// parentQueryID parses an optional UUID query parameter. The second return
// is false when the value is present but malformed.
func parentQueryID(r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// ListFolders lists the children of ?parentId, or the root when absent.
func (h *Vault) ListFolders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	parentID, ok := parentQueryID(r, "parentId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid parentId"})
		return
	}

	folders, err := h.service.ListFolders(r.Context(), user.ID, parentID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]folderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, toFolderResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListFiles lists the files in ?folderId, or at the root when absent.
func (h *Vault) ListFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	folderID, ok := parentQueryID(r, "folderId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid folderId"})
		return
	}

	files, err := h.service.ListFiles(r.Context(), user.ID, folderID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, toFileResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// Upload accepts a multipart body with a "file" part and an optional
// "folderId" field. The request body is bounded before parsing so an
// oversized upload fails instead of buffering without limit.
func (h *Vault) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body"})
		return
	}

	var folderID *uuid.UUID
	if raw := r.FormValue("folderId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid folderId"})
			return
		}
		folderID = &id
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file part"})
		return
	}
	defer part.Close()

	file, err := h.service.Upload(r.Context(), service.UploadParams{
		OwnerID:     user.ID,
		FolderID:    folderID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Data:        part,
	})
	if err != nil {
		h.logger.Error("Vault handler: upload failed", "user_id", user.ID, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(file))
}

type signUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type signUploadResponse struct {
	URL       string    `json:"url"`
	FileID    uuid.UUID `json:"fileId"`
	ExpiresIn int64     `json:"expiresInSeconds"`
}

// SignUpload returns a presigned PUT URL so the client can push bytes
// straight to object storage.
func (h *Vault) SignUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var req signUploadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	signed, err := h.service.SignUpload(r.Context(), service.SignUploadParams{
		OwnerID:     user.ID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signUploadResponse{
		URL:       signed.URL,
		FileID:    signed.FileID,
		ExpiresIn: int64(signed.ExpiresIn.Seconds()),
	})
}

type signDownloadRequest struct {
	FileID uuid.UUID `json:"fileId" validate:"required"`
}

type signDownloadResponse struct {
	URL string `json:"url"`
}

// SignDownload returns a presigned GET URL for an owned file.
func (h *Vault) SignDownload(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var req signDownloadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	url, err := h.service.SignDownload(r.Context(), user.ID, req.FileID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signDownloadResponse{URL: url})
}

type moveFileRequest struct {
	FileID   uuid.UUID  `json:"fileId" validate:"required"`
	FolderID *uuid.UUID `json:"folderId"`
}

// MoveFile relocates a file into a folder, or to the root when folderId is
// absent.
func (h *Vault) MoveFile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var req moveFileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	file, err := h.service.MoveFile(r.Context(), user.ID, req.FileID, req.FolderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(file))
}

// DeleteFile removes a file's object and record.
func (h *Vault) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file id"})
		return
	}

	if err := h.service.DeleteFile(r.Context(), user.ID, fileID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}
