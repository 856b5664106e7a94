package bot

import (
	"context"

	"relayBot/internal/db/conversation"
	"relayBot/internal/service"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type ResetHandler struct {
	Repository conversation.Repository
	reminders  *service.ReminderManager
	logger     *zap.Logger
}

func NewResetHandler(r conversation.Repository, reminders *service.ReminderManager, logger *zap.Logger) *ResetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResetHandler{Repository: r, reminders: reminders, logger: logger}
}

// Handle drops the chat's history and pending reminders. A custom prompt
// survives.
func (h *ResetHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID

	cleared := h.Repository.Reset(chatID)
	cancelled := 0
	if h.reminders != nil {
		cancelled = h.reminders.Cancel(chatID)
	}
	h.logger.Info("[ResetHandler.Handle] reset",
		zap.Int64("chat_id", chatID), zap.Bool("had_history", cleared), zap.Int("reminders", cancelled))

	text := "Conversation history cleared. Press /start to begin again."
	if !cleared && cancelled == 0 {
		text = "There was nothing saved for this chat."
	}
	if err := sendWithMenu(ctx, m, h.Repository, chatID, text); err != nil {
		h.logger.Warn("[ResetHandler.Handle] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
