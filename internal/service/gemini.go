package service

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Wire types for the Gemini generateContent REST API, shared by the concept
// and image services.

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// textRequest wraps a single prompt into the contents shape.
func textRequest(prompt string, genCfg *geminiGenConfig) geminiRequest {
	return geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: genCfg,
	}
}

// newGeminiClient builds a resty client with the API key header and a bounded
// per-call timeout.
func newGeminiClient(apiKey string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetHeader("x-goog-api-key", apiKey)
	client.SetHeader("Content-Type", "application/json")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)
	return client
}
