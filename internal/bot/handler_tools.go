package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"relayBot/internal/calc"
	"relayBot/internal/service"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type MathHandler struct {
	logger *zap.Logger
}

func NewMathHandler(logger *zap.Logger) *MathHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MathHandler{logger: logger}
}

func (h *MathHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	expr := commandArgs(update.Message.Text)
	if expr == "" {
		usage(ctx, m, h.logger, chatID, "/math <expression>", "Example: /math (2 + 3) * 4")
		return
	}

	text := ""
	v, err := calc.Eval(expr)
	switch {
	case err == nil:
		text = "Result: " + calc.Format(v)
	case errors.Is(err, calc.ErrDivisionByZero):
		text = "Division by zero."
	default:
		text = "Invalid expression: " + err.Error()
	}
	if err := send(ctx, m, chatID, text); err != nil {
		h.logger.Warn("[MathHandler.Handle] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

type RemindHandler struct {
	reminders *service.ReminderManager
	logger    *zap.Logger
}

func NewRemindHandler(reminders *service.ReminderManager, logger *zap.Logger) *RemindHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemindHandler{reminders: reminders, logger: logger}
}

// Handle parses "/remind <seconds> <text>".
func (h *RemindHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	args := strings.Fields(commandArgs(update.Message.Text))
	maxSeconds := int(service.MaxReminderDelay / time.Second)

	var seconds int
	var err error
	if len(args) >= 2 {
		seconds, err = strconv.Atoi(args[0])
	}
	if len(args) < 2 || err != nil {
		usage(ctx, m, h.logger, chatID, fmt.Sprintf("/remind <seconds> <text> (1 to %d seconds)", maxSeconds))
		return
	}

	text := strings.Join(args[1:], " ")
	r, err := h.reminders.Add(chatID, time.Duration(seconds)*time.Second, text)
	if err != nil {
		usage(ctx, m, h.logger, chatID, fmt.Sprintf("/remind <seconds> <text> (1 to %d seconds)", maxSeconds))
		return
	}

	h.logger.Info("[RemindHandler.Handle] scheduled", zap.Int64("chat_id", chatID), zap.String("id", r.ID), zap.Time("due", r.Due))
	if err := send(ctx, m, chatID, fmt.Sprintf("Reminder set for %d seconds from now.", seconds)); err != nil {
		h.logger.Warn("[RemindHandler.Handle] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// ReminderNotify builds the callback the reminder manager fires.
func ReminderNotify(m Messenger, logger *zap.Logger) service.Notify {
	return func(ctx context.Context, chatID int64, text string) {
		if err := send(ctx, m, chatID, "⏰ Reminder: "+text); err != nil {
			logger.Warn("[ReminderNotify] send", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}
