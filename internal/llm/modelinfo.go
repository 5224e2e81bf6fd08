package llm

import (
	"sort"

	"github.com/Niloux/chat-module/internal/models"
	"github.com/pkoukk/tiktoken-go"
)

const (
	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"

	DefaultBaseURL = "https://api.deepseek.com/v1"
)

// ModelInfo describes a model's capabilities. Adding a model means adding a
// table entry, not touching branch logic.
type ModelInfo struct {
	SupportsReasoning bool
}

var knownModels = map[string]ModelInfo{
	ModelChat:     {},
	ModelReasoner: {SupportsReasoning: true},
}

// SupportsReasoning reports whether the model returns a reasoning trace.
// Unknown models are treated as plain chat models.
func SupportsReasoning(model string) bool {
	return knownModels[model].SupportsReasoning
}

func IsKnownModel(model string) bool {
	_, ok := knownModels[model]
	return ok
}

func KnownModels() []string {
	names := make([]string, 0, len(knownModels))
	for name := range knownModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountTokens gives a rough token estimate for an outbound projection.
// Best effort: returns 0 when the encoding is unavailable.
func CountTokens(messages []models.ChatMessage) int {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0
	}
	total := 0
	for _, msg := range messages {
		// Per-message framing overhead, per the OpenAI counting guidance.
		total += 4 + len(enc.Encode(msg.Content, nil, nil))
	}
	return total
}
