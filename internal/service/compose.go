package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sabin/memeforge/internal/domain"
)

// ComposePrompt merges the master prompt with the caller's context and intent,
// keeping quoted source material and the free-form request in clearly
// delimited sections so the text model can tell them apart. Both fields
// default to empty; composition is total and never fails.
func ComposePrompt(template string, req *domain.GenerationRequest) string {
	contextText := CanonicalizeContext(req.RawContext)
	intent := req.UserIntent

	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\n--- INPUT DATA START ---\n\n")
	b.WriteString("<RawNews>\n")
	b.WriteString(contextText)
	b.WriteString("\n</RawNews>\n\n")
	b.WriteString("<UserPrompt>\n")
	b.WriteString(intent)
	b.WriteString("\n</UserPrompt>\n\n")
	b.WriteString("--- INPUT DATA END ---\n")
	return b.String()
}

// CanonicalizeContext turns the raw context into stable text. Strings pass
// through; structured values serialize as indented JSON, which gives stable
// key order for map-shaped input and therefore identical prompts across runs
// with identical input.
func CanonicalizeContext(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Unmarshalable values (channels, funcs) should never reach
			// here; degrade to fmt rather than dropping the context.
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
