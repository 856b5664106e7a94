package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Messenger is the subset of *bot.Bot the handlers talk to.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	ForwardMessage(ctx context.Context, params *bot.ForwardMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

type Handler interface {
	Handle(ctx context.Context, m Messenger, update *models.Update)
}

type HandlerFunc func(ctx context.Context, m Messenger, update *models.Update)

func (f HandlerFunc) Handle(ctx context.Context, m Messenger, update *models.Update) {
	f(ctx, m, update)
}
