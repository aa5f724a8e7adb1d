package voice

import "fmt"

const systemPrompt = `You are a grocery list parser. Parse voice input and return a JSON object with two keys:
1. "items": Array of item names mentioned (e.g., ["milk", "eggs", "cheese"])
2. "budget": Number extracted from phrases like "under 800" or "budget of 500" (return 0 if no budget mentioned)

Only return valid JSON, no additional text.`

func userPrompt(transcript string) string {
	return fmt.Sprintf("Parse this voice input: %q", transcript)
}
