package ai

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

// buildPrompt renders the generation prompt for a request. The enum
// spellings are wire identifiers; the model gets plain words.
func buildPrompt(req Request) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(`
		Write a marketplace listing description for the item in this photo.

		Item category: %s
		Item condition: %s

		Guidelines:
		- 2-4 sentences in a friendly selling tone, no emoji
		- Mention color, material, brand and model when visible
		- Work the stated condition in naturally; do not hide visible flaws
		- Do not invent details that are not visible in the photo

		Respond in JSON format with one field:
		- description: the listing description text

		Example response:
		{"description": "Sturdy oak dining chair with a curved backrest. Light wear on the seat edge, otherwise in good shape. A classic piece that fits most dining tables."}

		Respond ONLY with the JSON object, no markdown or other text.
	`)), categoryName(req.Category), conditionName(req.Condition))
}

func categoryName(c Category) string {
	return strings.ToLower(string(c))
}

func conditionName(c Condition) string {
	return strings.ToLower(strings.ReplaceAll(string(c), "_", " "))
}
