package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sabin/memeforge/internal/domain"
)

type stubPipeline struct {
	req  *domain.GenerationRequest
	resp *domain.GenerationResponse
	err  error
}

func (s *stubPipeline) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResponse, error) {
	s.req = req
	return s.resp, s.err
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, filename string, r io.Reader, instructions string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.text != "" {
		return s.text, nil
	}
	return instructions, nil
}

func newGenerateRouter(pipeline *stubPipeline, extractor *stubExtractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewGenerateHandler(pipeline, extractor)
	r.POST("/api/v1/generate-memes", h.Generate)
	return r
}

func TestGenerate_JSONRequest(t *testing.T) {
	pipeline := &stubPipeline{
		resp: &domain.GenerationResponse{
			Success: true,
			Memes: []domain.ConceptResult{
				{
					MemeConcept:   domain.MemeConcept{ID: 1, Style: "Surreal"},
					Outcome:       domain.OutcomeGenerated,
					ImageArtifact: "data:image/png;base64,xx",
				},
			},
		},
	}
	router := newGenerateRouter(pipeline, &stubExtractor{})

	body := `{"user_vibe":"make it spicy","context":"budget news","language":"NEPALI"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if pipeline.req.UserIntent != "make it spicy" {
		t.Errorf("user intent not bound: %q", pipeline.req.UserIntent)
	}
	if pipeline.req.RawContext != "budget news" {
		t.Errorf("context not bound: %v", pipeline.req.RawContext)
	}
	if pipeline.req.Language != domain.LanguageNepali {
		t.Errorf("language not lowercased: %q", pipeline.req.Language)
	}

	var resp domain.GenerationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || len(resp.Memes) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGenerate_StructuredContext(t *testing.T) {
	pipeline := &stubPipeline{resp: &domain.GenerationResponse{Success: true}}
	router := newGenerateRouter(pipeline, &stubExtractor{})

	body := `{"user_vibe":"v","context":{"headline":"strike","city":"Kathmandu"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	m, ok := pipeline.req.RawContext.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded map context, got %T", pipeline.req.RawContext)
	}
	if m["headline"] != "strike" {
		t.Errorf("unexpected context: %v", m)
	}
}

func TestGenerate_BadBody(t *testing.T) {
	pipeline := &stubPipeline{resp: &domain.GenerationResponse{Success: true}}
	router := newGenerateRouter(pipeline, &stubExtractor{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp domain.GenerationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error == "" {
		t.Error("expected an error message")
	}
	if pipeline.req != nil {
		t.Error("pipeline must not run on a bad request")
	}
}

func TestGenerate_PipelineError(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("text model HTTP 503")}
	router := newGenerateRouter(pipeline, &stubExtractor{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", strings.NewReader(`{"user_vibe":"v"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp domain.GenerationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(resp.Error, "503") {
		t.Errorf("expected upstream detail in error, got %q", resp.Error)
	}
	if len(resp.Memes) != 0 {
		t.Error("failed response must not carry memes")
	}
}

func TestGenerate_MultipartWithFile(t *testing.T) {
	pipeline := &stubPipeline{resp: &domain.GenerationResponse{Success: true}}
	extractor := &stubExtractor{text: "extracted article text"}
	router := newGenerateRouter(pipeline, extractor)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("user_vibe", "office humor")
	mw.WriteField("language", "english")
	fw, _ := mw.CreateFormFile("file", "article.txt")
	fw.Write([]byte("raw file bytes"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if pipeline.req.RawContext != "extracted article text" {
		t.Errorf("expected extracted text as context, got %v", pipeline.req.RawContext)
	}
	if pipeline.req.UserIntent != "office humor" {
		t.Errorf("user intent not bound: %q", pipeline.req.UserIntent)
	}
}

func TestGenerate_MultipartWithoutFile(t *testing.T) {
	pipeline := &stubPipeline{resp: &domain.GenerationResponse{Success: true}}
	router := newGenerateRouter(pipeline, &stubExtractor{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("user_vibe", "v")
	mw.WriteField("context", "typed context")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-memes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if pipeline.req.RawContext != "typed context" {
		t.Errorf("expected typed context, got %v", pipeline.req.RawContext)
	}
}
