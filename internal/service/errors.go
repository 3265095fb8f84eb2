package service

import "errors"

// Error taxonomy for the generation pipeline. Anything at or before concept
// generation is fatal to the whole request; image-stage failures are isolated
// per concept and never wrapped in these sentinels.
var (
	// ErrUpstreamService marks transport, HTTP, or timeout failures when
	// calling a generative service.
	ErrUpstreamService = errors.New("upstream service error")

	// ErrMalformedResponse marks a text-model response that does not parse
	// as JSON at all.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidSchema marks a parsed response whose shape violates the
	// concept contract (missing meme_concepts, not an array, or broken
	// concept entries).
	ErrInvalidSchema = errors.New("invalid concept schema")
)
