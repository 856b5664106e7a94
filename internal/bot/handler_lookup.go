package bot

import (
	"context"
	"errors"
	"fmt"

	"relayBot/internal/lookup"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LookupHandler answers the commands backed by public HTTP APIs.
type LookupHandler struct {
	weather      lookup.Weather
	quotes       lookup.Quotes
	jokes        lookup.Jokes
	encyclopedia lookup.Encyclopedia
	translator   lookup.Translator
	target       string
	logger       *zap.Logger
}

func NewLookupHandler(
	weather lookup.Weather,
	quotes lookup.Quotes,
	jokes lookup.Jokes,
	encyclopedia lookup.Encyclopedia,
	translator lookup.Translator,
	translateTarget string,
	logger *zap.Logger,
) *LookupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupHandler{
		weather:      weather,
		quotes:       quotes,
		jokes:        jokes,
		encyclopedia: encyclopedia,
		translator:   translator,
		target:       translateTarget,
		logger:       logger,
	}
}

func (h *LookupHandler) Weather(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	city := commandArgs(update.Message.Text)
	if city == "" {
		usage(ctx, m, h.logger, chatID, "/weather <city>")
		return
	}

	report, err := h.weather.Current(ctx, city)
	if err != nil {
		h.failed(ctx, m, chatID, "weather", err, fmt.Sprintf("I couldn't find the weather for %q.", city))
		return
	}
	h.reply(ctx, m, chatID, report)
}

func (h *LookupHandler) Translate(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	text := commandArgs(update.Message.Text)
	if text == "" {
		usage(ctx, m, h.logger, chatID, "/translate <text>")
		return
	}

	out, err := h.translator.Translate(ctx, text, h.target)
	if err != nil {
		h.failed(ctx, m, chatID, "translate", err, "I couldn't translate that.")
		return
	}
	h.reply(ctx, m, chatID, out)
}

func (h *LookupHandler) Quote(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	q, err := h.quotes.RandomQuote(ctx)
	if err != nil {
		h.failed(ctx, m, chatID, "quote", err, "No quote for now.")
		return
	}
	text := fmt.Sprintf("“%s”", q.Text)
	if q.Author != "" {
		text += "\n— " + q.Author
	}
	h.reply(ctx, m, chatID, text)
}

func (h *LookupHandler) Joke(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	j, err := h.jokes.RandomJoke(ctx)
	if err != nil {
		h.failed(ctx, m, chatID, "joke", err, "No joke for now.")
		return
	}
	h.reply(ctx, m, chatID, j.Setup+"\n\n"+j.Punchline)
}

func (h *LookupHandler) Wiki(ctx context.Context, m Messenger, update *models.Update) {
	chatID := update.Message.Chat.ID
	query := commandArgs(update.Message.Text)
	if query == "" {
		usage(ctx, m, h.logger, chatID, "/wiki <query>")
		return
	}

	a, err := h.encyclopedia.Summary(ctx, query)
	if err != nil {
		h.failed(ctx, m, chatID, "wiki", err, fmt.Sprintf("Nothing found on Wikipedia for %q.", query))
		return
	}
	text := a.Title + "\n\n" + a.Extract
	if a.URL != "" {
		text += "\n\n" + a.URL
	}
	h.reply(ctx, m, chatID, text)
}

// failed reports a lookup error. notFound is shown when the provider had
// nothing to return; other failures get a generic message.
func (h *LookupHandler) failed(ctx context.Context, m Messenger, chatID int64, what string, err error, notFound string) {
	if errors.Is(err, lookup.ErrNotFound) {
		h.reply(ctx, m, chatID, notFound)
		return
	}
	h.logger.Warn("[LookupHandler] lookup failed", zap.String("lookup", what), zap.Int64("chat_id", chatID), zap.Error(err))
	h.reply(ctx, m, chatID, "The "+what+" service is not available right now. Please try again later.")
}

func (h *LookupHandler) reply(ctx context.Context, m Messenger, chatID int64, text string) {
	if err := send(ctx, m, chatID, text); err != nil {
		h.logger.Warn("[LookupHandler.reply] send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
