// Package upload serves stored resumes back over HTTP.
package upload

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"owltrack/internal/pkg/response"
	"owltrack/internal/storage"
)

type Handler struct {
	blobs storage.BlobStore
	log   *slog.Logger
}

func NewHandler(blobs storage.BlobStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{blobs: blobs, log: log}
}

// Serve handles GET /uploads/:name
func (h *Handler) Serve(c *gin.Context) {
	name := c.Param("name")

	rc, err := h.blobs.Open(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			response.Error(c, http.StatusBadRequest, "INVALID_NAME", "Invalid file name")
		case errors.Is(err, storage.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		default:
			h.log.Error("open upload failed", "name", name, "error", err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read file")
		}
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition":    fmt.Sprintf("inline; filename=%q", name),
		"X-Content-Type-Options": "nosniff",
	})
}
