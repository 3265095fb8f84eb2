package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sabin/memeforge/internal/domain"
)

type stubConceptGenerator struct {
	concepts []domain.MemeConcept
	err      error
}

func (s *stubConceptGenerator) BuildPrompt(req *domain.GenerationRequest) string {
	return "composed prompt"
}

func (s *stubConceptGenerator) GenerateConcepts(ctx context.Context, prompt string) ([]domain.MemeConcept, error) {
	return s.concepts, s.err
}

func (s *stubConceptGenerator) GetModel() string { return "stub-text" }

// stubImageSynthesizer yields per-concept results with optional staggered
// delays so completion order can be forced to differ from input order.
type stubImageSynthesizer struct {
	calls  atomic.Int32
	delays map[int]time.Duration
	fail   map[int]bool
}

func (s *stubImageSynthesizer) Synthesize(ctx context.Context, c domain.MemeConcept) domain.ConceptResult {
	s.calls.Add(1)
	if d, ok := s.delays[c.ID]; ok {
		time.Sleep(d)
	}

	result := domain.ConceptResult{MemeConcept: c}
	if s.fail[c.ID] {
		result.Outcome = domain.OutcomeFailed
		result.ErrorReason = reasonGenerationFailed
		return result
	}
	result.Outcome = domain.OutcomeGenerated
	result.ImageArtifact = fmt.Sprintf("data:image/png;base64,img%d", c.ID)
	return result
}

func (s *stubImageSynthesizer) GetModel() string { return "stub-image" }

type stubGenerationStore struct {
	rec *domain.GenerationRecord
	err error
}

func (s *stubGenerationStore) Save(ctx context.Context, rec *domain.GenerationRecord) error {
	s.rec = rec
	return s.err
}

func threeConcepts() []domain.MemeConcept {
	return []domain.MemeConcept{
		{ID: 1, Style: "Photorealistic Satire", FinalGenerationString: "a --ar 4:3"},
		{ID: 2, Style: "Surreal", FinalGenerationString: "b --ar 4:3"},
		{ID: 3, Style: "Wildcard", FinalGenerationString: "c --ar 4:3"},
	}
}

func TestPipelineGenerate_OrderPreserved(t *testing.T) {
	// The first concept finishes last; output order must still follow
	// concept order, not completion order.
	images := &stubImageSynthesizer{
		delays: map[int]time.Duration{
			1: 60 * time.Millisecond,
			2: 30 * time.Millisecond,
			3: 0,
		},
	}
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: threeConcepts()}, images, nil)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{
		UserIntent: "anything",
		Language:   domain.LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("expected success response")
	}
	if len(resp.Memes) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Memes))
	}
	for i, r := range resp.Memes {
		if r.ID != i+1 {
			t.Errorf("result %d carries concept %d, order not preserved", i, r.ID)
		}
	}
}

func TestPipelineGenerate_FailFastOnConceptError(t *testing.T) {
	images := &stubImageSynthesizer{}
	store := &stubGenerationStore{}
	conceptErr := fmt.Errorf("%w: text model HTTP 503", ErrUpstreamService)

	pipeline := NewPipelineService(&stubConceptGenerator{err: conceptErr}, images, store)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{})
	if resp != nil {
		t.Errorf("expected no response on concept failure, got %+v", resp)
	}
	if !errors.Is(err, ErrUpstreamService) {
		t.Fatalf("expected wrapped ErrUpstreamService, got %v", err)
	}
	if n := images.calls.Load(); n != 0 {
		t.Errorf("image stage must not run after concept failure, got %d calls", n)
	}
	if store.rec == nil {
		t.Fatal("failed run should still be recorded")
	}
	if store.rec.Status != domain.GenerationStatusFailed {
		t.Errorf("expected failed status, got %s", store.rec.Status)
	}
	if store.rec.Error == "" {
		t.Error("expected error message on failed record")
	}
}

func TestPipelineGenerate_FaultIsolation(t *testing.T) {
	images := &stubImageSynthesizer{fail: map[int]bool{2: true}}
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: threeConcepts()}, images, nil)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("a per-concept failure must not fail the batch")
	}
	if len(resp.Memes) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Memes))
	}

	if resp.Memes[0].Outcome != domain.OutcomeGenerated {
		t.Errorf("concept 1 should have succeeded, got %s", resp.Memes[0].Outcome)
	}
	if resp.Memes[1].Outcome != domain.OutcomeFailed {
		t.Errorf("concept 2 should have failed, got %s", resp.Memes[1].Outcome)
	}
	if resp.Memes[1].ErrorReason != reasonGenerationFailed {
		t.Errorf("expected reason %q, got %q", reasonGenerationFailed, resp.Memes[1].ErrorReason)
	}
	if resp.Memes[2].Outcome != domain.OutcomeGenerated {
		t.Errorf("concept 3 should have succeeded, got %s", resp.Memes[2].Outcome)
	}
}

func TestPipelineGenerate_EmptyBatch(t *testing.T) {
	images := &stubImageSynthesizer{}
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: nil}, images, nil)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("empty batch is still a success")
	}
	if len(resp.Memes) != 0 {
		t.Errorf("expected empty result set, got %d", len(resp.Memes))
	}
	if n := images.calls.Load(); n != 0 {
		t.Errorf("expected no image calls for empty batch, got %d", n)
	}
}

func TestPipelineGenerate_RecordsHistory(t *testing.T) {
	store := &stubGenerationStore{}
	images := &stubImageSynthesizer{fail: map[int]bool{3: true}}
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: threeConcepts()}, images, store)

	_, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{
		RawContext: "some headline",
		UserIntent: "vibe",
		Language:   domain.LanguageNepali,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := store.rec
	if rec == nil {
		t.Fatal("expected a generation record")
	}
	if rec.Status != domain.GenerationStatusOK {
		t.Errorf("expected ok status, got %s", rec.Status)
	}
	if rec.Language != domain.LanguageNepali {
		t.Errorf("expected nepali, got %s", rec.Language)
	}
	if rec.TextModel != "stub-text" || rec.ImageModel != "stub-image" {
		t.Errorf("models not recorded: %s / %s", rec.TextModel, rec.ImageModel)
	}
	if rec.ConceptCount != 3 {
		t.Errorf("expected 3 concepts recorded, got %d", rec.ConceptCount)
	}
	wantOutcomes := []string{"generated", "generated", "failed"}
	if len(rec.Outcomes) != len(wantOutcomes) {
		t.Fatalf("expected %d outcomes, got %d", len(wantOutcomes), len(rec.Outcomes))
	}
	for i, want := range wantOutcomes {
		if rec.Outcomes[i] != want {
			t.Errorf("outcome %d: expected %s, got %s", i, want, rec.Outcomes[i])
		}
	}
}

func TestPipelineGenerate_HistoryFailureIsNotFatal(t *testing.T) {
	store := &stubGenerationStore{err: errors.New("database is down")}
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: threeConcepts()}, &stubImageSynthesizer{}, store)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("history failure must not surface: %v", err)
	}
	if !resp.Success {
		t.Error("expected success despite history failure")
	}
}

func TestPipelineGenerate_NilStore(t *testing.T) {
	pipeline := NewPipelineService(&stubConceptGenerator{concepts: threeConcepts()}, &stubImageSynthesizer{}, nil)

	resp, err := pipeline.Generate(context.Background(), &domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Memes) != 3 {
		t.Errorf("expected 3 results, got %d", len(resp.Memes))
	}
}
