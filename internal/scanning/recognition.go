package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseRecognitionJSON parses the JSON transcription returned by a vision
// model backend.
func parseRecognitionJSON(text string) (*Recognition, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks; models add them despite the prompt
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Keep only the JSON object - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var rec Recognition
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	if strings.TrimSpace(rec.RawText) == "" {
		return nil, fmt.Errorf("empty transcription in response")
	}

	// The extraction engine expects a percentage in [0,100]
	if rec.Confidence < 0 {
		rec.Confidence = 0
	}
	if rec.Confidence > 100 {
		rec.Confidence = 100
	}

	return &rec, nil
}
