package handler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabin/memeforge/internal/storage"
	_ "golang.org/x/image/webp"
)

const templatePrefix = "templates/"

// TemplateHandler handles the meme template library endpoints.
type TemplateHandler struct {
	storage  storage.ObjectStorage
	maxBytes int64
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(store storage.ObjectStorage, maxBytes int64) *TemplateHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &TemplateHandler{
		storage:  store,
		maxBytes: maxBytes,
	}
}

// List handles GET /api/v1/templates.
func (h *TemplateHandler) List(c *gin.Context) {
	keys, err := h.storage.List(c.Request.Context(), templatePrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list templates: " + err.Error(),
		})
		return
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, h.storage.GetURL(key))
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": urls,
		"total":     len(urls),
	})
}

// Upload handles POST /api/v1/templates. The file must decode as a supported
// image format (png, jpeg, gif, webp) before it is stored.
func (h *TemplateHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No file uploaded",
		})
		return
	}

	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("File exceeds %d bytes", h.maxBytes),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to open uploaded file",
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to read uploaded file",
		})
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Uploaded file is not a supported image",
		})
		return
	}

	key := fmt.Sprintf("%s%s%s", templatePrefix, uuid.New().String(), normalizeExt(fileHeader.Filename, format))
	contentType := contentTypeForFormat(format)

	if err := h.storage.Upload(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to store template: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     h.storage.GetURL(key),
		"width":   cfg.Width,
		"height":  cfg.Height,
	})
}

// normalizeExt prefers the decoded format over the client-supplied name.
func normalizeExt(filename, format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png", "gif", "webp":
		return "." + format
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return ".png"
}

func contentTypeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
