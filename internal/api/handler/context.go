package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextHandler handles the standalone document-to-text endpoint used by
// the frontend to preview extracted context before generating.
type ContextHandler struct {
	extractor ContextExtractor
}

// NewContextHandler creates a new context parsing handler.
func NewContextHandler(extractor ContextExtractor) *ContextHandler {
	return &ContextHandler{extractor: extractor}
}

// Parse handles POST /api/v1/parse-context.
func (h *ContextHandler) Parse(c *gin.Context) {
	ctx := c.Request.Context()
	instructions := c.PostForm("instructions")

	var filename string
	var parsed string

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to open uploaded file",
			})
			return
		}
		defer f.Close()

		filename = fileHeader.Filename
		parsed, err = h.extractor.Extract(ctx, filename, f, instructions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to process context: " + err.Error(),
			})
			return
		}
	} else {
		parsed = instructions
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"filename":   filename,
		"parsedText": parsed,
	})
}
