package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sabin/memeforge/internal/domain"
)

// MemeGenerator is the pipeline entry point consumed by the HTTP layer.
type MemeGenerator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResponse, error)
}

// ContextExtractor resolves an uploaded document into plain text.
type ContextExtractor interface {
	Extract(ctx context.Context, filename string, r io.Reader, instructions string) (string, error)
}

// GenerateHandler handles the meme generation endpoint.
type GenerateHandler struct {
	pipeline  MemeGenerator
	extractor ContextExtractor
}

// NewGenerateHandler creates a new generation handler.
func NewGenerateHandler(pipeline MemeGenerator, extractor ContextExtractor) *GenerateHandler {
	return &GenerateHandler{
		pipeline:  pipeline,
		extractor: extractor,
	}
}

// generateJSONRequest is the JSON body shape. Context may be a plain string
// or any JSON value; structured values are canonicalized by the composer.
type generateJSONRequest struct {
	UserVibe string          `json:"user_vibe"`
	Context  json.RawMessage `json:"context"`
	Language string          `json:"language"`
}

// Generate handles POST /api/v1/generate-memes. It accepts either a JSON
// body or a multipart form with an optional document; a document is resolved
// to plain text before the pipeline runs.
func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.bindRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.GenerationResponse{
			Success: false,
			Error:   "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.pipeline.Generate(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.GenerationResponse{
			Success: false,
			Error:   "Failed to generate memes: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindRequest builds the immutable GenerationRequest from either body shape.
func (h *GenerateHandler) bindRequest(c *gin.Context) (*domain.GenerationRequest, error) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.bindMultipart(c)
	}

	var body generateJSONRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}

	var rawContext any
	if len(body.Context) > 0 {
		var decoded any
		if err := json.Unmarshal(body.Context, &decoded); err == nil {
			rawContext = decoded
		} else {
			rawContext = string(body.Context)
		}
	}

	return &domain.GenerationRequest{
		RawContext: rawContext,
		UserIntent: body.UserVibe,
		Language:   domain.Language(strings.ToLower(body.Language)),
	}, nil
}

func (h *GenerateHandler) bindMultipart(c *gin.Context) (*domain.GenerationRequest, error) {
	ctx := c.Request.Context()

	userVibe := c.PostForm("user_vibe")
	contextText := c.PostForm("context")
	language := domain.Language(strings.ToLower(c.PostForm("language")))

	// An uploaded document takes precedence over the typed context field;
	// the extractor falls back to it when the file yields nothing.
	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		extracted, err := h.extractor.Extract(ctx, fileHeader.Filename, f, contextText)
		if err != nil {
			return nil, err
		}
		contextText = extracted
	}

	return &domain.GenerationRequest{
		RawContext: contextText,
		UserIntent: userVibe,
		Language:   language,
	}, nil
}
