package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sabin/memeforge/internal/repository"
)

// GenerationHandler exposes the generation history.
type GenerationHandler struct {
	repo *repository.GenerationRepository
}

// NewGenerationHandler creates a new generation history handler.
func NewGenerationHandler(repo *repository.GenerationRepository) *GenerationHandler {
	return &GenerationHandler{repo: repo}
}

// List handles GET /api/v1/generations.
func (h *GenerationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list generations: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generations": records,
		"total":       len(records),
	})
}
