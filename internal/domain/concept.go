package domain

// Language selects the locale of the master prompt used for concept
// generation. The set is closed; anything outside it resolves to English.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageNepali  Language = "nepali"
)

// Valid reports whether the language is one of the supported locales.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageNepali
}

// CaptionStyle describes how the external caption is rendered over the image.
// Values mirror the contract the text model is instructed to emit.
type CaptionStyle string

const (
	CaptionWhiteBarTop       CaptionStyle = "White_Bar_Top"
	CaptionWhiteBarBottom    CaptionStyle = "White_Bar_Bottom"
	CaptionTransparentBottom CaptionStyle = "Transparent_Text_Overlay_Bottom"
)

// Valid reports whether the caption style is a known value.
func (c CaptionStyle) Valid() bool {
	switch c {
	case CaptionWhiteBarTop, CaptionWhiteBarBottom, CaptionTransparentBottom:
		return true
	}
	return false
}

// ControversyLevel is the model's self-assessment of how risky a concept is.
type ControversyLevel string

const (
	ControversyLow    ControversyLevel = "Low"
	ControversyMedium ControversyLevel = "Medium"
	ControversyHigh   ControversyLevel = "High"
)

// Valid reports whether the controversy level is a known value.
func (c ControversyLevel) Valid() bool {
	switch c {
	case ControversyLow, ControversyMedium, ControversyHigh:
		return true
	}
	return false
}

// GenerationRequest is the immutable input to one pipeline run.
// RawContext may be a plain string or an already-decoded JSON value; the
// prompt composer canonicalizes non-string values before embedding.
type GenerationRequest struct {
	RawContext any
	UserIntent string
	Language   Language
}

// MemeConcept is one meme idea produced by the text model. Field tags match
// the JSON contract the model is instructed to emit.
type MemeConcept struct {
	ID                    int              `json:"id"`
	Style                 string           `json:"style"`
	Rationale             string           `json:"rationale"`
	FinalGenerationString string           `json:"final_generation_string"`
	ExternalCaption       string           `json:"external_caption"`
	CaptionStyle          CaptionStyle     `json:"caption_style"`
	CTA                   string           `json:"cta"`
	ViralityScore         int              `json:"virality_score"`
	TargetAudience        string           `json:"target_audience"`
	ControversyLevel      ControversyLevel `json:"controversy_level"`
}

// ArtifactOutcome classifies the image-synthesis result for one concept.
// The distinction between a real artifact, a placeholder on an ambiguous
// upstream response, and an explicit failure is deliberate and must not be
// collapsed into a boolean.
type ArtifactOutcome string

const (
	OutcomeGenerated   ArtifactOutcome = "generated"
	OutcomePlaceholder ArtifactOutcome = "placeholder"
	OutcomeFailed      ArtifactOutcome = "failed"
)

// ConceptResult pairs a concept with the outcome of its image synthesis.
// Exactly one of ImageArtifact and ErrorReason is populated; a placeholder
// reference counts as an artifact and is tagged OutcomePlaceholder.
type ConceptResult struct {
	MemeConcept
	ImageArtifact string          `json:"generated_image_url,omitempty"`
	Outcome       ArtifactOutcome `json:"outcome"`
	ErrorReason   string          `json:"error,omitempty"`
}

// GenerationResponse is the terminal value returned to the transport layer.
type GenerationResponse struct {
	Success bool            `json:"success"`
	Memes   []ConceptResult `json:"memes,omitempty"`
	Error   string          `json:"error,omitempty"`
}
