package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sabin/memeforge/internal/domain"
)

func newTestImageService(baseURL string) *ImageService {
	return NewImageService(&ImageConfig{
		Model:          "image-test",
		APIKey:         "test-key",
		BaseURL:        baseURL,
		PlaceholderURL: "https://placehold.example/err",
	})
}

func TestSynthesize_MissingPrompt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	svc := newTestImageService(server.URL)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		result := svc.Synthesize(context.Background(), domain.MemeConcept{
			ID:                    1,
			FinalGenerationString: prompt,
		})

		if result.Outcome != domain.OutcomeFailed {
			t.Errorf("prompt %q: expected failed outcome, got %s", prompt, result.Outcome)
		}
		if result.ErrorReason != reasonMissingPrompt {
			t.Errorf("prompt %q: expected reason %q, got %q", prompt, reasonMissingPrompt, result.ErrorReason)
		}
		if result.ImageArtifact != "" {
			t.Errorf("prompt %q: expected no artifact, got %q", prompt, result.ImageArtifact)
		}
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("expected no upstream calls for missing prompts, got %d", n)
	}
}

func TestSynthesize_Generated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[
			{"text":"here is your image"},
			{"inlineData":{"mimeType":"image/png","data":"aGVsbG8="}}
		]}}]}`)
	}))
	defer server.Close()

	svc := newTestImageService(server.URL)
	result := svc.Synthesize(context.Background(), domain.MemeConcept{
		ID:                    1,
		FinalGenerationString: "a truck in Maitighar --ar 4:3",
	})

	if result.Outcome != domain.OutcomeGenerated {
		t.Fatalf("expected generated outcome, got %s (reason %q)", result.Outcome, result.ErrorReason)
	}
	want := "data:image/png;base64,aGVsbG8="
	if result.ImageArtifact != want {
		t.Errorf("expected artifact %q, got %q", want, result.ImageArtifact)
	}
	if result.ErrorReason != "" {
		t.Errorf("expected no error reason, got %q", result.ErrorReason)
	}
}

func TestSynthesize_PlaceholderOnUnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "text only response",
			body: `{"candidates":[{"content":{"parts":[{"text":"no image for you"}]}}]}`,
		},
		{
			name: "no candidates",
			body: `{"candidates":[]}`,
		},
		{
			name: "inline data with empty payload",
			body: `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":""}}]}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			svc := newTestImageService(server.URL)
			result := svc.Synthesize(context.Background(), domain.MemeConcept{
				ID:                    1,
				FinalGenerationString: "prompt",
			})

			if result.Outcome != domain.OutcomePlaceholder {
				t.Fatalf("expected placeholder outcome, got %s", result.Outcome)
			}
			if result.ImageArtifact != "https://placehold.example/err" {
				t.Errorf("expected placeholder URL, got %q", result.ImageArtifact)
			}
			if result.ErrorReason != "" {
				t.Errorf("placeholder is not a failure, got reason %q", result.ErrorReason)
			}
		})
	}
}

func TestSynthesize_FailedOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	svc := newTestImageService(server.URL)
	result := svc.Synthesize(context.Background(), domain.MemeConcept{
		ID:                    1,
		FinalGenerationString: "prompt",
	})

	if result.Outcome != domain.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", result.Outcome)
	}
	if result.ErrorReason != reasonGenerationFailed {
		t.Errorf("expected reason %q, got %q", reasonGenerationFailed, result.ErrorReason)
	}
	if result.ImageArtifact != "" {
		t.Errorf("failed synthesis must not carry an artifact, got %q", result.ImageArtifact)
	}
}

func TestSynthesize_FailedOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := newTestImageService(server.URL)
	result := svc.Synthesize(context.Background(), domain.MemeConcept{
		ID:                    1,
		FinalGenerationString: "prompt",
	})

	if result.Outcome != domain.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", result.Outcome)
	}
	if result.ErrorReason != reasonGenerationFailed {
		t.Errorf("expected reason %q, got %q", reasonGenerationFailed, result.ErrorReason)
	}
}

func TestSynthesize_KeepsConceptFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/webp","data":"ZGF0YQ=="}}]}}]}`)
	}))
	defer server.Close()

	concept := domain.MemeConcept{
		ID:                    2,
		Style:                 "Surreal",
		ExternalCaption:       "caption",
		CaptionStyle:          domain.CaptionWhiteBarTop,
		FinalGenerationString: "prompt",
		ViralityScore:         88,
	}

	svc := newTestImageService(server.URL)
	result := svc.Synthesize(context.Background(), concept)

	if result.MemeConcept != concept {
		t.Errorf("result must carry the concept unchanged: %+v", result.MemeConcept)
	}
}
