package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"relayBot/internal/ai_model/phind"
	internalbot "relayBot/internal/bot"
	"relayBot/internal/config"
	"relayBot/internal/db/conversation"
	"relayBot/internal/logger"
	"relayBot/internal/lookup/jokeapi"
	"relayBot/internal/lookup/mymemory"
	"relayBot/internal/lookup/wikipedia"
	"relayBot/internal/lookup/wttr"
	"relayBot/internal/lookup/zenquotes"
	"relayBot/internal/ratelimit"
	"relayBot/internal/server"
	"relayBot/internal/service"

	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "relaybot",
		Short:        "Telegram bot relaying chats to a streaming completion API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, v)
		},
	}

	cmd.Flags().String("port", "", "HTTP port for the health check and webhook (env PORT).")
	cmd.Flags().String("webhook-url", "", "Public base URL; enables webhook mode (env WEBHOOK_URL).")
	cmd.Flags().String("redis-url", "", "Redis URL for the shared rate limiter (env REDIS_URL).")
	cmd.Flags().String("log-level", "", "Logging level: debug|info|warn|error (env LOG_LEVEL).")
	cmd.Flags().String("log-encoding", "", "Logging encoding: console|json (env LOG_ENCODING).")

	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("webhook_url", cmd.Flags().Lookup("webhook-url"))
	_ = v.BindPFlag("redis_url", cmd.Flags().Lookup("redis-url"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("log_encoding", cmd.Flags().Lookup("log-encoding"))

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	limiter, closeLimiter, err := newLimiter(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeLimiter()

	store := conversation.NewStore(cfg.HistoryCapacity, cfg.SystemPrompt)
	model := phind.NewClient(cfg.CompletionURL, cfg.CompletionTimeout, cfg.StreamChunkSize, &http.Client{}, l.Named("phind"))

	queue := service.NewChatQueue(ctx, cfg.MaxConcurrency, l.Named("queue"))
	defer queue.Close()

	txt := internalbot.NewTextHandler(model, cfg.Model, store, limiter, cfg.RateLimitWindow, cfg.AdminChatID, l.Named("text"))
	dispatcher := internalbot.NewDispatcher(cfg.AdminChatID, txt, queue, l.Named("dispatcher"))

	// Handlers run in arrival order; the dispatcher hands the slow part to
	// the chat's queue.
	b, err := bot.New(cfg.BotToken,
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(dispatcher.Handle),
		bot.WithErrorsHandler(func(err error) {
			l.Warn("[bot] telegram error", zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}

	reminders := service.NewReminderManager(ctx, internalbot.ReminderNotify(b, l), l.Named("reminders"))
	defer reminders.Shutdown()

	registerRoutes(dispatcher, cfg, store, reminders, l)

	webhookPath := ""
	if cfg.UsesWebhook() {
		webhookPath = cfg.WebhookPath()
		if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
			URL:            cfg.WebhookURL + webhookPath,
			MaxConnections: 1,
		}); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		l.Info("[main] webhook mode", zap.String("url", cfg.WebhookURL))
	} else {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
			l.Warn("[main] delete webhook", zap.Error(err))
		}
		l.Info("[main] polling mode")
		go b.Start(ctx)
	}

	srv := server.New(ctx, cfg.Port, webhookPath, b, l.Named("http"))
	return srv.Run(ctx)
}

func newLimiter(ctx context.Context, cfg config.Config, l *zap.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(nil), func() {}, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	l.Info("[main] redis rate limiter enabled")
	return ratelimit.NewRedisLimiter(client, l.Named("ratelimit")), func() { _ = client.Close() }, nil
}

func registerRoutes(d *internalbot.Dispatcher, cfg config.Config, store *conversation.Store, reminders *service.ReminderManager, l *zap.Logger) {
	client := &http.Client{Timeout: cfg.LookupTimeout}

	cmd := internalbot.NewCommandHandler(store, l)
	res := internalbot.NewResetHandler(store, reminders, l)
	prm := internalbot.NewPromptHandler(store, l)
	brd := internalbot.NewBroadcastHandler(store, cfg.AdminChatID, l)
	rem := internalbot.NewRemindHandler(reminders, l)
	mth := internalbot.NewMathHandler(l)
	lkp := internalbot.NewLookupHandler(
		wttr.NewApiWttr(client),
		zenquotes.NewApiZenQuotes(client),
		jokeapi.NewApiJokes(client),
		wikipedia.NewApiWikipedia(client),
		mymemory.NewApiMyMemory(client),
		cfg.TranslateTarget,
		l.Named("lookup"),
	)

	d.Command("start", internalbot.HandlerFunc(cmd.Start))
	d.Command("help", internalbot.HandlerFunc(cmd.Help))
	d.Command("reset", res)
	d.Command("setprompt", internalbot.HandlerFunc(prm.SetPrompt))
	d.Command("prompt", internalbot.HandlerFunc(prm.ShowPrompt))
	d.Command("roles", internalbot.HandlerFunc(prm.ListRoles))
	d.Command("list_roles", internalbot.HandlerFunc(prm.ListRoles))
	d.Command("role", internalbot.HandlerFunc(prm.SetRole))
	d.Command("broadcast", brd)
	d.Command("weather", internalbot.HandlerFunc(lkp.Weather))
	d.Command("translate", internalbot.HandlerFunc(lkp.Translate))
	d.Command("remind", rem)
	d.Command("quote", internalbot.HandlerFunc(lkp.Quote))
	d.Command("joke", internalbot.HandlerFunc(lkp.Joke))
	d.Command("math", mth)
	d.Command("wiki", internalbot.HandlerFunc(lkp.Wiki))
}
