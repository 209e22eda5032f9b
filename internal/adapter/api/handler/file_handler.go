package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"barterin/internal/infrastructure/storage"
	"barterin/pkg/errors"
	"barterin/pkg/logger"
	"barterin/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	maxFileSize   int64
}

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		maxFileSize:   5 * 1024 * 1024,
	}
}

// UploadItemImage stores an item photo and returns its public URL. The URL is
// then attached to an item through the item create/update endpoints.
func (h *FileHandler) UploadItemImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	url, err := h.storageClient.UploadImage(c.Request().Context(), src, contentType, "items")
	if err != nil {
		logger.Error("Item image upload failed: %v", err)
		return response.Error(c, errors.BadRequest("File type not supported or upload failed", err))
	}

	return response.Created(c, map[string]string{"url": url})
}
