package stages

import "strings"

const fence = "```"

// ExtractJSON recovers a JSON payload from model output that may be wrapped
// in a Markdown code fence. When the trimmed text starts with a fence, the
// content between the first pair of fences is kept and a leading "json"
// language tag is dropped. Only one fenced block is expected; prose after the
// closing fence is discarded. Unfenced text is returned trimmed.
func ExtractJSON(raw string) string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, fence) {
		return content
	}
	parts := strings.Split(content, fence)
	content = parts[1]
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}
