package conversation

import "relayBot/internal/ai_model"

type Repository interface {
	Append(chatID int64, message ai_model.Message)
	Get(chatID int64) []ai_model.Message
	Reset(chatID int64) bool
	SetPrompt(chatID int64, prompt string)
	GetPrompt(chatID int64) string
	HasPrompt(chatID int64) bool
	Chats() []int64
}
