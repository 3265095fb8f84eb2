package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sabin/memeforge/internal/domain"
	"github.com/sabin/memeforge/internal/logger"
	"github.com/sabin/memeforge/internal/prompts"
)

// ConceptService turns a composed prompt into a validated batch of meme
// concepts via one call to the text-generation model. No retry: a single
// upstream round trip per pipeline invocation.
type ConceptService struct {
	client       *resty.Client
	model        string
	endpoint     string
	maxConcepts  int
	aspectSuffix string
}

// ConceptConfig holds configuration for the concept service.
type ConceptConfig struct {
	Model             string
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	MaxConcepts       int
	AspectRatioSuffix string
}

// NewConceptService creates a new concept generation service.
func NewConceptService(cfg *ConceptConfig) *ConceptService {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	maxConcepts := cfg.MaxConcepts
	if maxConcepts <= 0 {
		maxConcepts = 3
	}

	aspectSuffix := cfg.AspectRatioSuffix
	if aspectSuffix == "" {
		aspectSuffix = " --ar 4:3"
	}

	return &ConceptService{
		client:       newGeminiClient(cfg.APIKey, cfg.Timeout),
		model:        cfg.Model,
		endpoint:     fmt.Sprintf("%s/models/%s:generateContent", baseURL, cfg.Model),
		maxConcepts:  maxConcepts,
		aspectSuffix: aspectSuffix,
	}
}

// GetModel returns the text model identifier in use.
func (s *ConceptService) GetModel() string {
	return s.model
}

// conceptEnvelope is the strict JSON contract demanded from the text model.
// meme_concepts is kept raw so a missing key and a wrong-typed key can be
// told apart from top-level parse failures.
type conceptEnvelope struct {
	MemeConcepts json.RawMessage `json:"meme_concepts"`
}

// GenerateConcepts sends the composed prompt to the text model, demanding a
// JSON-constrained response, and returns at most maxConcepts structurally
// valid concepts. Any failure here aborts the pipeline before image
// synthesis: transport/HTTP errors as ErrUpstreamService, unparseable bodies
// as ErrMalformedResponse, contract violations as ErrInvalidSchema.
func (s *ConceptService) GenerateConcepts(ctx context.Context, prompt string) ([]domain.MemeConcept, error) {
	req := textRequest(prompt, &geminiGenConfig{ResponseMIMEType: "application/json"})

	start := time.Now()
	var resp geminiResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("%w: text model call failed: %v", ErrUpstreamService, err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("%w: text model HTTP %d: %s", ErrUpstreamService, httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("%w: text model HTTP %d: %s", ErrUpstreamService, httpResp.StatusCode(), string(httpResp.Body()))
	}

	text := firstText(&resp)
	if text == "" {
		return nil, fmt.Errorf("%w: no text part in model response", ErrMalformedResponse)
	}

	concepts, err := s.parseConcepts(text)
	if err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldModel:      s.model,
		logger.FieldCount:      len(concepts),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Concept generation completed")

	return concepts, nil
}

// firstText returns the first text part of the first candidate, or "".
func firstText(resp *geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// parseConcepts enforces the {meme_concepts: [...]} contract, truncates to
// the defensive cap, and normalizes each kept entry. The whole batch is
// rejected when any entry is structurally broken; a batch with fewer than
// maxConcepts entries is legitimate.
func (s *ConceptService) parseConcepts(text string) ([]domain.MemeConcept, error) {
	var envelope conceptEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(envelope.MemeConcepts) == 0 || string(envelope.MemeConcepts) == "null" {
		return nil, fmt.Errorf("%w: missing meme_concepts", ErrInvalidSchema)
	}

	var concepts []domain.MemeConcept
	if err := json.Unmarshal(envelope.MemeConcepts, &concepts); err != nil {
		return nil, fmt.Errorf("%w: meme_concepts is not a valid concept array: %v", ErrInvalidSchema, err)
	}

	// Defensive cap: the model may over-produce; extras are dropped, not
	// treated as an error.
	if len(concepts) > s.maxConcepts {
		concepts = concepts[:s.maxConcepts]
	}

	for i := range concepts {
		s.normalizeConcept(&concepts[i], i+1)
	}

	return concepts, nil
}

// normalizeConcept clamps and defaults model-supplied fields in place.
// IDs are reassigned from batch position so they are always 1-based, unique,
// and stable in generation order regardless of what the model emitted.
func (s *ConceptService) normalizeConcept(c *domain.MemeConcept, id int) {
	c.ID = id

	if c.ViralityScore < 0 {
		c.ViralityScore = 0
	}
	if c.ViralityScore > 100 {
		c.ViralityScore = 100
	}

	if !c.CaptionStyle.Valid() {
		c.CaptionStyle = domain.CaptionWhiteBarBottom
	}
	if !c.ControversyLevel.Valid() {
		c.ControversyLevel = domain.ControversyMedium
	}

	// The image prompt must end with the aspect-ratio directive; append it
	// when the model forgot. Empty prompts stay empty and are handled by
	// the image stage as "missing prompt".
	gen := strings.TrimSpace(c.FinalGenerationString)
	if gen != "" && !strings.HasSuffix(gen, strings.TrimSpace(s.aspectSuffix)) {
		gen += s.aspectSuffix
	}
	c.FinalGenerationString = gen
}

// BuildPrompt selects the locale template and composes the final instruction
// payload for a request. Exposed on the service so the coordinator deals with
// one collaborator for the whole text stage.
func (s *ConceptService) BuildPrompt(req *domain.GenerationRequest) string {
	template := prompts.Select(req.Language)
	return ComposePrompt(template, req)
}
