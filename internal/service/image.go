package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sabin/memeforge/internal/domain"
	"github.com/sabin/memeforge/internal/logger"
)

// Reasons attached to per-concept failures. These are stable strings the
// frontend matches on, not free-form error text.
const (
	reasonMissingPrompt    = "missing prompt"
	reasonGenerationFailed = "generation failed"
)

// ImageService renders one image per meme concept via the image-generation
// model. Every failure mode is absorbed into the returned ConceptResult; a
// synthesis call never propagates an error to its caller, so one bad concept
// cannot take down a batch.
type ImageService struct {
	client         *resty.Client
	model          string
	endpoint       string
	placeholderURL string
}

// ImageConfig holds configuration for the image service.
type ImageConfig struct {
	Model          string
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	PlaceholderURL string
}

// NewImageService creates a new image synthesis service.
func NewImageService(cfg *ImageConfig) *ImageService {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	placeholderURL := cfg.PlaceholderURL
	if placeholderURL == "" {
		placeholderURL = "https://placehold.co/600x400?text=Gen+Error"
	}

	return &ImageService{
		client:         newGeminiClient(cfg.APIKey, cfg.Timeout),
		model:          cfg.Model,
		endpoint:       fmt.Sprintf("%s/models/%s:generateContent", baseURL, cfg.Model),
		placeholderURL: placeholderURL,
	}
}

// GetModel returns the image model identifier in use.
func (s *ImageService) GetModel() string {
	return s.model
}

// Synthesize renders the image for a single concept and classifies the
// outcome as one of three tagged variants:
//   - generated: upstream returned inline image bytes, encoded as a
//     self-describing data URL artifact
//   - placeholder: upstream answered 2xx but without a recognizable image
//     payload; a placeholder reference is returned and the anomaly logged
//   - failed: the call itself failed (transport, HTTP error, timeout), or
//     the concept carried no prompt at all (no upstream call made)
func (s *ImageService) Synthesize(ctx context.Context, concept domain.MemeConcept) domain.ConceptResult {
	result := domain.ConceptResult{MemeConcept: concept}

	prompt := strings.TrimSpace(concept.FinalGenerationString)
	if prompt == "" {
		logger.CtxWarn(ctx, "Concept %d has no generation string, skipping image call", concept.ID)
		result.Outcome = domain.OutcomeFailed
		result.ErrorReason = reasonMissingPrompt
		return result
	}

	start := time.Now()
	var resp geminiResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(textRequest(prompt, nil)).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		logger.FromContext(ctx).WithError(err).
			WithField(logger.FieldConceptID, concept.ID).
			Error("Image model call failed")
		result.Outcome = domain.OutcomeFailed
		result.ErrorReason = reasonGenerationFailed
		return result
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		msg := string(httpResp.Body())
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		logger.With(logger.Fields{
			logger.FieldConceptID: concept.ID,
			logger.FieldStatus:    httpResp.StatusCode(),
		}).Error(ctx, "Image model returned error: %s", msg)
		result.Outcome = domain.OutcomeFailed
		result.ErrorReason = reasonGenerationFailed
		return result
	}

	if data := firstInlineData(&resp); data != nil {
		result.Outcome = domain.OutcomeGenerated
		result.ImageArtifact = fmt.Sprintf("data:%s;base64,%s", data.MimeType, data.Data)

		logger.With(logger.Fields{
			logger.FieldConceptID:  concept.ID,
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
			logger.FieldSize:       len(data.Data),
		}).Info(ctx, "Image generated")
		return result
	}

	// The service answered but without inline image bytes. Degrading to a
	// placeholder keeps "service unreachable" distinguishable from "service
	// returned something unexpected".
	logger.With(logger.Fields{
		logger.FieldConceptID: concept.ID,
		logger.FieldStatus:    httpResp.StatusCode(),
	}).Warn(ctx, "Unexpected image response structure, using placeholder")
	result.Outcome = domain.OutcomePlaceholder
	result.ImageArtifact = s.placeholderURL
	return result
}

// firstInlineData returns the first inline-data part of the first candidate.
func firstInlineData(resp *geminiResponse) *geminiInlineData {
	if len(resp.Candidates) == 0 {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData
		}
	}
	return nil
}
