package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"relayBot/internal/ai_model"
	"relayBot/internal/db/conversation"
	"relayBot/internal/ratelimit"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	rateLimitedText = "You're sending messages too quickly. Please wait a moment and try again."
	apologyText     = "An error occurred while processing your request."
)

// TextHandler relays free text to the completion model. The rate check runs
// when the message arrives; the history append and the completion call run
// later on the chat's queue.
type TextHandler struct {
	Model       ai_model.Completer
	ModelName   string
	Repository  conversation.Repository
	Limiter     ratelimit.Limiter
	Window      time.Duration
	AdminChatID int64
	logger      *zap.Logger
}

func NewTextHandler(
	model ai_model.Completer,
	modelName string,
	r conversation.Repository,
	limiter ratelimit.Limiter,
	window time.Duration,
	adminChatID int64,
	logger *zap.Logger,
) *TextHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextHandler{
		Model:       model,
		ModelName:   modelName,
		Repository:  r,
		Limiter:     limiter,
		Window:      window,
		AdminChatID: adminChatID,
		logger:      logger,
	}
}

// Admit records the request with the rate limiter. A refused message gets
// the advisory and never touches the history.
func (h *TextHandler) Admit(ctx context.Context, update *models.Update) Handler {
	if update == nil || update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	if h.Limiter != nil && !h.Limiter.TryAcquire(ctx, chatID, h.Window) {
		h.logger.Info("[TextHandler.Admit] rate limited", zap.Int64("chat_id", chatID))
		return HandlerFunc(h.advise)
	}
	return HandlerFunc(h.reply)
}

func (h *TextHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	if next := h.Admit(ctx, update); next != nil {
		next.Handle(ctx, m, update)
	}
}

func (h *TextHandler) advise(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	if err := send(ctx, m, chatID, rateLimitedText); err != nil {
		h.logger.Warn("[TextHandler.advise] send advisory", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *TextHandler) reply(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	if strings.TrimSpace(text) == "" {
		return
	}

	h.Repository.Append(chatID, ai_model.UserMessage(text))

	if _, err := m.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		h.logger.Debug("[TextHandler.reply] chat action", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	started := time.Now()
	reply, err := h.Model.Complete(ctx, h.Repository.Get(chatID), h.Repository.GetPrompt(chatID), h.ModelName)
	if err != nil {
		h.fail(ctx, m, chatID, err)
		return
	}
	h.logger.Info("[TextHandler.reply] completion done",
		zap.Int64("chat_id", chatID),
		zap.Int("reply_len", len(reply)),
		zap.Duration("took", time.Since(started)))

	h.Repository.Append(chatID, ai_model.AssistantMessage(reply))

	if err := send(ctx, m, chatID, reply); err != nil {
		h.logger.Error("[TextHandler.reply] send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// fail tells the user something went wrong and hands the raw error to the
// admin. Nothing is retried.
func (h *TextHandler) fail(ctx context.Context, m Messenger, chatID int64, cause error) {
	h.logger.Error("[TextHandler.reply] completion failed", zap.Int64("chat_id", chatID), zap.Error(cause))

	if err := send(ctx, m, chatID, apologyText); err != nil {
		h.logger.Warn("[TextHandler.fail] send apology", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	if h.AdminChatID == 0 {
		return
	}
	if err := send(ctx, m, h.AdminChatID, fmt.Sprintf("Error: %v", cause)); err != nil {
		h.logger.Warn("[TextHandler.fail] notify admin", zap.Error(err))
	}
}
