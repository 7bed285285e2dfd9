package enrichment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/ai"
)

var (
	// Leading ``` or ```json fence, optional newline.
	fenceStartRegex = regexp.MustCompile("^```(?:json)?\\s*\\n?")
	// Trailing ``` fence, optional preceding newline.
	fenceEndRegex = regexp.MustCompile("\\n?```\\s*$")
)

// enrichment is one element of the model's JSON array.
type enrichment struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// stripCodeFences removes one leading and one trailing markdown fence.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = fenceStartRegex.ReplaceAllString(text, "")
	text = fenceEndRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// parseResponse decodes the model reply into one enrichment per lead.
func parseResponse(text string) ([]enrichment, error) {
	var out []enrichment
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment response %q: %w", ai.Truncate(text, 120), err)
	}
	return out, nil
}
