package bot

import (
	"context"
	"strings"

	"relayBot/internal/db/conversation"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	welcomeText = "Hello! I am your AI assistant bot. Ask me anything!"
	helpText    = `Just send me a message and I'll answer.

/reset - forget our conversation
/setprompt <text> - set your own system prompt
/prompt - show the current system prompt
/roles - list preset personas
/role <name> - switch to a persona
/weather <city> - current weather
/translate <text> - translate text
/remind <seconds> <text> - set a reminder
/quote - a random quote
/joke - a random joke
/math <expression> - calculate
/wiki <query> - Wikipedia summary`
)

type CommandHandler struct {
	Repository conversation.Repository
	logger     *zap.Logger
}

func NewCommandHandler(r conversation.Repository, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{Repository: r, logger: logger}
}

// Start greets the user.
func (h *CommandHandler) Start(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	if err := sendWithMenu(ctx, m, h.Repository, chatID, welcomeText); err != nil {
		h.logger.Warn("[CommandHandler.Start] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *CommandHandler) Help(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	if err := sendWithMenu(ctx, m, h.Repository, chatID, helpText); err != nil {
		h.logger.Warn("[CommandHandler.Help] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// usage replies with a correction message for a malformed command.
func usage(ctx context.Context, m Messenger, logger *zap.Logger, chatID int64, lines ...string) {
	if err := send(ctx, m, chatID, "Usage: "+strings.Join(lines, "\n")); err != nil {
		logger.Warn("[usage] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
