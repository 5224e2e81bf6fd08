package llm

import (
	"context"
	"errors"

	"github.com/Niloux/chat-module/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client talks to the DeepSeek chat completion API through its
// OpenAI-compatible surface. One client per API key.
type Client struct {
	llm *openai.LLM
}

// Reply is a single completion. Reasoning is populated only for models that
// return a reasoning trace alongside the answer.
type Reply struct {
	Content   string `json:"content"`
	Reasoning string `json:"reasoning_content,omitempty"`
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(ModelChat),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm}, nil
}

// ChatCompletion submits the projected transcript and returns the first
// choice. The model set here overrides the client's default.
func (c *Client) ChatCompletion(ctx context.Context, messages []models.ChatMessage, model string, options ...llms.CallOption) (*Reply, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	options = append(options, llms.WithModel(model))
	resp, err := c.llm.GenerateContent(ctx, content, options...)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion response contained no choices")
	}

	choice := resp.Choices[0]
	return &Reply{Content: choice.Content, Reasoning: choice.ReasoningContent}, nil
}

func chatMessageType(role models.Role) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
