package models

import "time"

// Role is the speaker of a message. The set is closed: the store rejects
// anything outside it.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID        int64     `json:"conversation_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"message_id"`
	ConvID    int64     `json:"conversation_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Reasoning string    `json:"reasoning_content,omitempty"` // assistant messages from reasoner models only
	CreatedAt time.Time `json:"created_at"`
}

type PromptTemplate struct {
	ID        int64     `json:"template_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is the projection of a Message sent to the completion API:
// role and content only, reasoning stripped.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
