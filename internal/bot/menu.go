package bot

import (
	"context"
	"strings"
	"unicode/utf16"

	"relayBot/internal/db/conversation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxMessageLen is Telegram's limit for a single text message, counted in
// UTF-16 code units.
const maxMessageLen = 4096

func sendWithMenu(ctx context.Context, m Messenger, r conversation.Repository, chatID int64, text string) error {
	kb := buildMainKeyboard(r, chatID)
	_, err := m.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	return err
}

func buildMainKeyboard(r conversation.Repository, chatID int64) *models.ReplyKeyboardMarkup {
	btn := "/start"
	if len(r.Get(chatID)) > 0 {
		btn = "/reset"
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: btn}, {Text: "/help"}},
			{{Text: "/roles"}, {Text: "/prompt"}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
		Selective:       false,
	}
}

// send delivers text as one or more messages, splitting on rune boundaries
// when it exceeds maxMessageLen.
func send(ctx context.Context, m Messenger, chatID int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		if _, err := m.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: part}); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into parts of at most limit UTF-16 code units
// without splitting a rune.
func splitMessage(text string, limit int) []string {
	var (
		parts []string
		sb    strings.Builder
		units int
	)
	for _, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > limit && sb.Len() > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			units = 0
		}
		sb.WriteRune(r)
		units += n
	}
	if sb.Len() > 0 || len(parts) == 0 {
		parts = append(parts, sb.String())
	}
	return parts
}
