package adapter

import (
	"context"
	"fmt"
	"strings"
)

// Adapter is the boundary to an LLM completion service.
type Adapter interface {
	// Generate sends the request messages to the model and returns its text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Providers lists the adapter names accepted by New.
var Providers = []string{"openai", "anthropic", "google", "deepseek"}

// New creates the adapter registered under name.
func New(name, apiKey string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return NewOpenAIAdapter(apiKey)
	case "anthropic":
		return NewAnthropicAdapter(apiKey)
	case "google":
		return NewGoogleAdapter(apiKey)
	case "deepseek":
		return NewDeepSeekAdapter(apiKey)
	default:
		return nil, fmt.Errorf("unknown adapter %q", name)
	}
}

// splitSystem separates system messages, which some providers take as a
// dedicated parameter, from the conversation turns.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}
