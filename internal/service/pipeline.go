package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabin/memeforge/internal/domain"
	"github.com/sabin/memeforge/internal/logger"
)

// ConceptGenerator is the text stage consumed by the coordinator.
type ConceptGenerator interface {
	BuildPrompt(req *domain.GenerationRequest) string
	GenerateConcepts(ctx context.Context, prompt string) ([]domain.MemeConcept, error)
	GetModel() string
}

// ImageSynthesizer is the per-concept image stage consumed by the coordinator.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, concept domain.MemeConcept) domain.ConceptResult
	GetModel() string
}

// GenerationStore persists run metadata. A nil store disables history.
type GenerationStore interface {
	Save(ctx context.Context, rec *domain.GenerationRecord) error
}

// PipelineService coordinates the full request: template selection, prompt
// composition, the single text-model call, and the concurrent per-concept
// image fan-out. Only the text stage can fail the whole request.
type PipelineService struct {
	concepts ConceptGenerator
	images   ImageSynthesizer
	history  GenerationStore
}

// NewPipelineService creates a new pipeline coordinator. history may be nil.
func NewPipelineService(concepts ConceptGenerator, images ImageSynthesizer, history GenerationStore) *PipelineService {
	return &PipelineService{
		concepts: concepts,
		images:   images,
		history:  history,
	}
}

// Generate runs the whole pipeline for one request.
//
// Failure policy per step: template selection and prompt composition are
// total; concept generation fails fast with no partial output; image
// synthesis runs concurrently per concept and is isolated, so the returned
// batch always carries one result per concept in generation order, however
// many of them individually failed.
func (s *PipelineService) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResponse, error) {
	batchID := uuid.New().String()
	ctx = logger.SetBatchID(ctx, batchID)
	start := time.Now()

	prompt := s.concepts.BuildPrompt(req)
	logger.With(logger.Fields{
		logger.FieldSize: len(prompt),
	}).Info(ctx, "Prompt composed: language=%s", req.Language)

	concepts, err := s.concepts.GenerateConcepts(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("Concept generation failed")
		s.record(ctx, req, nil, start, err)
		return nil, err
	}

	// Fan-out: one goroutine per concept, results written by index so the
	// output order matches concept order no matter which image finishes
	// first. Tasks yield a value instead of erroring past the join, and a
	// failing sibling never cancels the others.
	results := make([]domain.ConceptResult, len(concepts))
	var wg sync.WaitGroup
	for i, concept := range concepts {
		wg.Add(1)
		go func(idx int, c domain.MemeConcept) {
			defer wg.Done()
			cctx := logger.WithField(ctx, logger.FieldConceptID, c.ID)
			results[idx] = s.images.Synthesize(cctx, c)
		}(i, concept)
	}
	wg.Wait()

	logger.With(logger.Fields{
		logger.FieldCount:      len(results),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Generation batch completed")

	s.record(ctx, req, results, start, nil)

	return &domain.GenerationResponse{
		Success: true,
		Memes:   results,
	}, nil
}

// record persists run metadata best-effort. History failures are logged and
// never surfaced: the caller's response does not depend on the database.
func (s *PipelineService) record(ctx context.Context, req *domain.GenerationRequest, results []domain.ConceptResult, start time.Time, runErr error) {
	if s.history == nil {
		return
	}

	rec := &domain.GenerationRecord{
		ID:           uuid.New().String(),
		Language:     req.Language,
		ContextChars: len(CanonicalizeContext(req.RawContext)),
		IntentChars:  len(req.UserIntent),
		TextModel:    s.concepts.GetModel(),
		ImageModel:   s.images.GetModel(),
		ConceptCount: len(results),
		Status:       domain.GenerationStatusOK,
		DurationMs:   time.Since(start).Milliseconds(),
		CreatedAt:    time.Now(),
	}

	if runErr != nil {
		rec.Status = domain.GenerationStatusFailed
		rec.Error = runErr.Error()
	}

	for _, r := range results {
		rec.Outcomes = append(rec.Outcomes, string(r.Outcome))
		rec.Styles = append(rec.Styles, r.Style)
	}

	if err := s.history.Save(ctx, rec); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to persist generation record")
	}
}
