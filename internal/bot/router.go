package bot

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"relayBot/internal/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type route struct {
	pattern *regexp.Regexp
	handler Handler
}

// Admitter is implemented by handlers that must decide about an update the
// moment it arrives, before it waits behind earlier updates of the chat.
// Admit returns the handler to queue for the update.
type Admitter interface {
	Admit(ctx context.Context, update *models.Update) Handler
}

// Dispatcher routes text messages through an ordered list of patterns. The
// first match wins; anything unmatched goes to the fallback handler.
//
// Dispatch must be called in arrival order. With a queue, the matched
// handler and the admin forward run as one job on the chat's queue, so a
// chat's updates are handled strictly one after another.
type Dispatcher struct {
	routes      []route
	fallback    Handler
	queue       *service.ChatQueue
	adminChatID int64
	logger      *zap.Logger
}

func NewDispatcher(adminChatID int64, fallback Handler, queue *service.ChatQueue, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		fallback:    fallback,
		queue:       queue,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// Command registers h for "/name", "/name args" and "/name@botname args".
func (d *Dispatcher) Command(name string, h Handler) {
	d.Pattern(`^/`+regexp.QuoteMeta(name)+`(?:@\w+)?(?:\s.*)?$`, h)
}

func (d *Dispatcher) Pattern(expr string, h Handler) {
	d.routes = append(d.routes, route{pattern: regexp.MustCompile(`(?s)` + expr), handler: h})
}

// Handle matches the bot.HandlerFunc signature so the dispatcher can be
// installed as the bot's default handler. The bot must be built with
// bot.WithNotAsyncHandlers to keep arrival order.
func (d *Dispatcher) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	d.Dispatch(ctx, b, update)
}

func (d *Dispatcher) Dispatch(ctx context.Context, m Messenger, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	h := d.match(strings.TrimSpace(msg.Text))
	if a, ok := h.(Admitter); ok {
		h = a.Admit(ctx, update)
	}

	job := func(jobCtx context.Context) {
		d.forwardToAdmin(jobCtx, m, msg)
		if h != nil {
			h.Handle(jobCtx, m, update)
		}
	}

	if d.queue == nil {
		job(ctx)
		return
	}
	if err := d.queue.Enqueue(ctx, chatID, job); err != nil {
		d.logger.Warn("[Dispatcher.Dispatch] enqueue failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// match returns nil for messages without text.
func (d *Dispatcher) match(text string) Handler {
	if text == "" {
		return nil
	}
	for _, r := range d.routes {
		if r.pattern.MatchString(text) {
			return r.handler
		}
	}
	return d.fallback
}

func (d *Dispatcher) forwardToAdmin(ctx context.Context, m Messenger, msg *models.Message) {
	if d.adminChatID == 0 || msg.Chat.ID == d.adminChatID {
		return
	}
	_, err := m.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     d.adminChatID,
		FromChatID: msg.Chat.ID,
		MessageID:  msg.ID,
	})
	if err != nil {
		d.logger.Warn("[Dispatcher.forwardToAdmin] forward failed",
			zap.Int64("chat_id", msg.Chat.ID), zap.Int("message_id", msg.ID), zap.Error(err))
	}
}

// commandArgs returns everything after the command token.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}
