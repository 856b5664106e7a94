package ai_model

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// Completer turns a chat history into one assistant reply. Implementations
// inject the system prompt themselves; history never carries it.
type Completer interface {
	Complete(ctx context.Context, history []Message, systemPrompt string, model string) (string, error)
}
