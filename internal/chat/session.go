package chat

import (
	"context"
	"errors"

	"github.com/Niloux/chat-module/internal/db"
	"github.com/Niloux/chat-module/internal/llm"
	"github.com/Niloux/chat-module/internal/models"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// ErrInvalidCredential means no API client could be resolved for the user:
// the user is unknown or has an empty API key.
var ErrInvalidCredential = errors.New("no resolvable API client for user")

type completer interface {
	ChatCompletion(ctx context.Context, messages []models.ChatMessage, model string, options ...llms.CallOption) (*llm.Reply, error)
}

// Session composes the registries and the DeepSeek API into the operations
// the interactive layer calls. It caches one API client per user, populated
// lazily on first use and kept for the life of the process. Not safe for
// concurrent use: one logical session drives all calls.
type Session struct {
	db      *db.Database
	baseURL string
	logger  *zap.Logger
	clients map[int64]completer

	newClient func(baseURL, apiKey string) (completer, error)
}

func NewSession(database *db.Database, baseURL string, logger *zap.Logger) *Session {
	return &Session{
		db:      database,
		baseURL: baseURL,
		logger:  logger,
		clients: make(map[int64]completer),
		newClient: func(baseURL, apiKey string) (completer, error) {
			return llm.NewClient(baseURL, apiKey)
		},
	}
}

func (s *Session) Close() error {
	return s.db.Close()
}

// Register creates a new user. The API client is resolved lazily on first
// send, not here.
func (s *Session) Register(username, apiKey string) (int64, error) {
	return s.db.CreateUser(username, apiKey)
}

func (s *Session) apiClient(userID int64) (completer, error) {
	if client, ok := s.clients[userID]; ok {
		return client, nil
	}

	apiKey, err := s.db.GetUserAPIKey(userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, ErrInvalidCredential
	}

	client, err := s.newClient(s.baseURL, apiKey)
	if err != nil {
		return nil, err
	}
	s.clients[userID] = client
	return client, nil
}

// UpdateAPIKey stores a new key for the user and drops any cached client so
// the next send picks it up.
func (s *Session) UpdateAPIKey(userID int64, apiKey string) error {
	if err := s.db.UpdateUserAPIKey(userID, apiKey); err != nil {
		return err
	}
	delete(s.clients, userID)
	return nil
}

// StartConversation creates a conversation and appends its system message.
func (s *Session) StartConversation(userID int64, title, model, systemPrompt string) (int64, error) {
	convID, err := s.db.CreateConversation(userID, title, model)
	if err != nil {
		return 0, err
	}
	if _, err := s.db.AddMessage(convID, models.RoleSystem, systemPrompt, ""); err != nil {
		return 0, err
	}
	return convID, nil
}

// StartConversationWithPrompt starts a conversation whose system message is
// taken from a stored template.
func (s *Session) StartConversationWithPrompt(userID int64, title, model string, templateID int64) (int64, error) {
	tmpl, err := s.db.GetPrompt(templateID)
	if err != nil {
		return 0, err
	}
	return s.StartConversation(userID, title, model, tmpl.Content)
}

// Send appends the user message, submits the full projected transcript with
// the conversation's current model, stores the assistant reply, and returns
// it. The reasoning trace is kept only for models the capability table marks
// as reasoners.
func (s *Session) Send(ctx context.Context, userID, conversationID int64, content string, options ...llms.CallOption) (*llm.Reply, error) {
	conv, err := s.db.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.AddMessage(conversationID, models.RoleUser, content, ""); err != nil {
		return nil, err
	}

	messages, err := s.db.GetFormattedMessages(conversationID)
	if err != nil {
		return nil, err
	}

	client, err := s.apiClient(userID)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	s.logger.Info("sending chat completion",
		zap.String("request_id", requestID),
		zap.Int64("conversation_id", conversationID),
		zap.String("model", conv.Model),
		zap.Int("messages", len(messages)),
		zap.Int("token_estimate", llm.CountTokens(messages)))

	reply, err := client.ChatCompletion(ctx, messages, conv.Model, options...)
	if err != nil {
		s.logger.Error("chat completion failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	if !llm.SupportsReasoning(conv.Model) {
		reply.Reasoning = ""
	}
	if _, err := s.db.AddMessage(conversationID, models.RoleAssistant, reply.Content, reply.Reasoning); err != nil {
		return nil, err
	}
	return reply, nil
}

// SetSystemPrompt appends a new system message. Earlier system rows stay in
// the transcript as stale history; the log never rewrites them.
func (s *Session) SetSystemPrompt(conversationID int64, prompt string) error {
	_, err := s.db.AddMessage(conversationID, models.RoleSystem, prompt, "")
	return err
}

func (s *Session) GetUser(username string) (*models.User, error) {
	return s.db.GetUser(username)
}

func (s *Session) History(conversationID int64) ([]models.Message, error) {
	return s.db.GetConversationMessages(conversationID)
}

// Projection returns the role/content view of the transcript that Send
// submits to the API.
func (s *Session) Projection(conversationID int64) ([]models.ChatMessage, error) {
	return s.db.GetFormattedMessages(conversationID)
}

func (s *Session) Conversations(userID int64) ([]models.Conversation, error) {
	return s.db.GetUserConversations(userID)
}

func (s *Session) UpdateModel(conversationID int64, model string) (bool, error) {
	return s.db.UpdateConversationModel(conversationID, model)
}

func (s *Session) Delete(conversationID int64) (bool, error) {
	return s.db.DeleteConversation(conversationID)
}

func (s *Session) SavePrompt(userID int64, name, content string) (int64, error) {
	return s.db.SavePrompt(userID, name, content)
}

func (s *Session) GetPrompt(templateID int64) (*models.PromptTemplate, error) {
	return s.db.GetPrompt(templateID)
}

func (s *Session) Prompts(userID int64) ([]models.PromptTemplate, error) {
	return s.db.GetUserPrompts(userID)
}

func (s *Session) DeletePrompt(templateID int64) (bool, error) {
	return s.db.DeletePrompt(templateID)
}

func (s *Session) Search(conversationID int64, query string) ([]models.Message, error) {
	return s.db.SearchMessages(conversationID, query)
}
