package bot

import (
	"context"
	"fmt"

	"relayBot/internal/db/conversation"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BroadcastHandler struct {
	Repository  conversation.Repository
	AdminChatID int64
	logger      *zap.Logger
}

func NewBroadcastHandler(r conversation.Repository, adminChatID int64, logger *zap.Logger) *BroadcastHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastHandler{Repository: r, AdminChatID: adminChatID, logger: logger}
}

// Handle sends the text to every chat the store knows. Admin only.
func (h *BroadcastHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	if h.AdminChatID == 0 || chatID != h.AdminChatID {
		if err := send(ctx, m, chatID, "This command is only available to the administrator."); err != nil {
			h.logger.Warn("[BroadcastHandler.Handle] send refusal", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}

	text := commandArgs(update.Message.Text)
	if text == "" {
		usage(ctx, m, h.logger, chatID, "/broadcast <text>")
		return
	}

	sent, failed := 0, 0
	for _, id := range h.Repository.Chats() {
		if id == h.AdminChatID {
			continue
		}
		if err := send(ctx, m, id, text); err != nil {
			failed++
			h.logger.Warn("[BroadcastHandler.Handle] send", zap.Int64("chat_id", id), zap.Error(err))
			continue
		}
		sent++
	}

	h.logger.Info("[BroadcastHandler.Handle] done", zap.Int("sent", sent), zap.Int("failed", failed))
	if err := send(ctx, m, chatID, fmt.Sprintf("Broadcast sent to %d chats (%d failed).", sent, failed)); err != nil {
		h.logger.Warn("[BroadcastHandler.Handle] send summary", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
