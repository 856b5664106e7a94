package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"relayBot/internal/db/conversation"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var rolePresets = map[string]string{
	"normal":              "Respond in a neutral and general way.",
	"best_friend":         "Respond as a caring and supportive best friend.",
	"teacher":             "Respond as a knowledgeable and patient teacher.",
	"girlfriend":          "Respond as a loving and empathetic partner.",
	"programmer":          "Respond as an expert programmer with technical insights.",
	"ethical_hacker":      "Respond as a cybersecurity expert focusing on ethical hacking.",
	"fitness_trainer":     "Respond as a motivating fitness trainer.",
	"therapist":           "Respond as a compassionate therapist.",
	"business_consultant": "Respond as a strategic business consultant.",
	"storyteller":         "Respond as a creative and imaginative storyteller.",
	"chef":                "Respond as a professional chef with recipe ideas and cooking tips.",
	"travel_guide":        "Respond as an enthusiastic and knowledgeable travel guide.",
}

// PromptHandler manages the per-chat system prompt, either free-form or
// from a preset role.
type PromptHandler struct {
	Repository conversation.Repository
	logger     *zap.Logger
}

func NewPromptHandler(r conversation.Repository, logger *zap.Logger) *PromptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptHandler{Repository: r, logger: logger}
}

func (h *PromptHandler) SetPrompt(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	prompt := commandArgs(update.Message.Text)
	if prompt == "" {
		usage(ctx, m, h.logger, chatID, "/setprompt <text>")
		return
	}

	h.Repository.SetPrompt(chatID, prompt)
	h.logger.Info("[PromptHandler.SetPrompt] prompt updated", zap.Int64("chat_id", chatID))
	h.reply(ctx, m, chatID, "System prompt updated.")
}

func (h *PromptHandler) ShowPrompt(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	label := "Default system prompt"
	if h.Repository.HasPrompt(chatID) {
		label = "Your system prompt"
	}
	h.reply(ctx, m, chatID, fmt.Sprintf("%s:\n%s", label, h.Repository.GetPrompt(chatID)))
}

func (h *PromptHandler) ListRoles(ctx context.Context, m Messenger, update *models.Update) {
	names := make([]string, 0, len(rolePresets))
	for name := range rolePresets {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Available roles:")
	for _, name := range names {
		fmt.Fprintf(&sb, "\n- %s: %s", name, rolePresets[name])
	}
	h.reply(ctx, m, update.Message.Chat.ID, sb.String())
}

func (h *PromptHandler) SetRole(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	name := strings.ToLower(commandArgs(update.Message.Text))
	if name == "" {
		usage(ctx, m, h.logger, chatID, "/role <name>", "See /roles for the list.")
		return
	}

	prompt, ok := rolePresets[name]
	if !ok {
		h.reply(ctx, m, chatID, "Invalid role. Use /roles to see available roles.")
		return
	}

	h.Repository.SetPrompt(chatID, prompt)
	h.reply(ctx, m, chatID, "Your role has been set to: "+name)
}

func (h *PromptHandler) reply(ctx context.Context, m Messenger, chatID int64, text string) {
	if err := send(ctx, m, chatID, text); err != nil {
		h.logger.Warn("[PromptHandler.reply] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
