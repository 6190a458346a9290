package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

type descriptionPayload struct {
	Description string `json:"description"`
}

// parseDescription pulls the description out of raw model text. Models
// occasionally wrap the JSON in markdown fences or chatter; anything that
// still doesn't yield a non-empty description is a validation failure.
func parseDescription(text string) (string, error) {
	jsonStr, err := extractJSONObject(text)
	if err != nil {
		return "", newError(CodeValidationFailed, "%s", err)
	}

	var payload descriptionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return "", newError(CodeValidationFailed, "failed to parse response JSON: %s (response: %s)", err, jsonStr)
	}
	if strings.TrimSpace(payload.Description) == "" {
		return "", newError(CodeValidationFailed, "empty description in response")
	}

	return payload.Description, nil
}

// extractJSONObject extracts a JSON object from text that may contain
// markdown code blocks or other formatting. Returns the extracted JSON
// string or an error.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response: %s", text)
	}
	return text[start : end+1], nil
}
