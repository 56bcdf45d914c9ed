package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

const (
	multipartMemory = 32 << 20
	downloadURLTTL  = 15 * time.Minute
)

// UploadFileHandler stores a .glb/.gltf model in object storage and records
// its metadata for the caller.
func (h *Handler) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Upload File API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	if h.Storage == nil {
		utils.RespondError(w, &logMessageBuilder, "file storage is not configured", http.StatusServiceUnavailable)
		return
	}

	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			utils.RespondError(w, &logMessageBuilder, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		utils.RespondError(w, &logMessageBuilder, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := path.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	if !config.IsAllowedExtension(filename) {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("file type not allowed, allowed: %s", strings.Join(config.AllowedExtensions, ", ")), http.StatusBadRequest)
		return
	}
	if header.Size > config.MaxFileSize {
		utils.RespondError(w, &logMessageBuilder, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	objectKey := fmt.Sprintf("uploads/%s/%s-%s", userID, uuid.NewString(), filename)
	contentType := utils.ContentTypeFor(filename)
	if err := h.Storage.Upload(r.Context(), objectKey, file, header.Size, contentType); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Upload failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "failed to store file", http.StatusBadGateway)
		return
	}

	meta := &models.File{
		Filename:    filename,
		Filepath:    objectKey,
		Size:        header.Size,
		ContentType: contentType,
		UserID:      userID,
		Category:    models.FileCategoryUpload,
	}
	if _, err := h.Files.Create(r.Context(), meta); err != nil {
		if delErr := h.Storage.Delete(r.Context(), objectKey); delErr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Orphaned object %s: %v", objectKey, delErr))
		}
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Stored %s (%d bytes)", objectKey, header.Size))
	utils.RespondJSON(w, http.StatusCreated, meta)
}

func (h *Handler) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[List Files API]")

	files, err := h.Files.List(r.Context())
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}
	utils.RespondJSON(w, http.StatusOK, files)
}

func (h *Handler) GetFileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get File API]")

	f, err := h.Files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}
	utils.RespondJSON(w, http.StatusOK, f)
}

// DeleteFileHandler removes an uploaded file and its metadata. Only the
// uploader may delete, so system defaults cannot be removed through the API.
func (h *Handler) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete File API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	f, err := h.Files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}
	if f.UserID != userID {
		utils.RespondError(w, &logMessageBuilder, "forbidden", http.StatusForbidden)
		return
	}
	if h.Storage == nil {
		utils.RespondError(w, &logMessageBuilder, "file storage is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.Storage.Delete(r.Context(), f.Filepath); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Delete failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "failed to delete stored file", http.StatusBadGateway)
		return
	}
	if _, err := h.Files.Delete(r.Context(), f.ID.Hex()); err != nil {
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DownloadFileHandler redirects to a short-lived presigned URL.
func (h *Handler) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Download File API]")

	f, err := h.Files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "file")
		return
	}
	if h.Storage == nil {
		utils.RespondError(w, &logMessageBuilder, "file storage is not configured", http.StatusServiceUnavailable)
		return
	}
	url, err := h.Storage.PresignGet(r.Context(), f.Filepath, f.Filename, downloadURLTTL)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Presign failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "failed to create download link", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
