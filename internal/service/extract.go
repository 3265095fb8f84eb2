package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sabin/memeforge/internal/logger"
)

// ExtractService pre-resolves an uploaded document into plain text before it
// reaches the generation pipeline; the pipeline itself never touches raw file
// bytes. Unsupported formats degrade to the caller's typed instructions
// rather than failing the request.
type ExtractService struct {
	maxBytes int64
}

// ExtractConfig holds configuration for context extraction.
type ExtractConfig struct {
	MaxFileBytes int64
}

// NewExtractService creates a new context extraction service.
func NewExtractService(cfg *ExtractConfig) *ExtractService {
	maxBytes := int64(10 << 20)
	if cfg != nil && cfg.MaxFileBytes > 0 {
		maxBytes = cfg.MaxFileBytes
	}
	return &ExtractService{maxBytes: maxBytes}
}

// plainTextExtensions are the formats read verbatim. Binary document formats
// (pdf, docx) would slot in here behind the same contract.
var plainTextExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
}

// Extract reads the uploaded file and returns its plain-text content. When
// the file is absent, unsupported, or empty after trimming, the caller's
// instructions are returned instead, mirroring the degrade path of the
// original upload flow.
func (s *ExtractService) Extract(ctx context.Context, filename string, r io.Reader, instructions string) (string, error) {
	if r == nil || filename == "" {
		return strings.TrimSpace(instructions), nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !plainTextExtensions[ext] {
		logger.CtxWarn(ctx, "Unsupported file type for parsing: %s", ext)
		return strings.TrimSpace(instructions), nil
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("uploaded file exceeds %d bytes", s.maxBytes)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return strings.TrimSpace(instructions), nil
	}

	logger.With(logger.Fields{
		logger.FieldSize: len(text),
	}).Debug(ctx, "Extracted context from %s", filename)

	return text, nil
}
