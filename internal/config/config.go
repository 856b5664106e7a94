package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultCompletionURL = "https://https.extension.phind.com/agent/"
	DefaultModel         = "Phind-34B"
	DefaultSystemPrompt  = "Be Helpful and Friendly"
)

type Config struct {
	BotToken          string
	AdminChatID       int64
	Port              string
	WebhookURL        string
	WebhookSecretPath string
	CompletionURL     string
	Model             string
	SystemPrompt      string
	CompletionTimeout time.Duration
	StreamChunkSize   int
	RateLimitWindow   time.Duration
	HistoryCapacity   int
	MaxConcurrency    int
	RedisURL          string
	LookupTimeout     time.Duration
	TranslateTarget   string
	Logging           LoggingConfig
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	EnableCaller bool
	ServiceName  string
}

// UsesWebhook reports whether updates arrive through the webhook endpoint
// instead of long polling.
func (c Config) UsesWebhook() bool {
	return c.WebhookURL != ""
}

// WebhookPath is the route the HTTP server listens on for updates.
func (c Config) WebhookPath() string {
	return "/" + strings.Trim(c.WebhookSecretPath, "/")
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("completion_url", DefaultCompletionURL)
	v.SetDefault("completion_model", DefaultModel)
	v.SetDefault("system_prompt", DefaultSystemPrompt)
	v.SetDefault("completion_timeout", 90*time.Second)
	v.SetDefault("stream_chunk_size", 4096)
	v.SetDefault("rate_limit_window", 3*time.Second)
	v.SetDefault("history_capacity", 20)
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("lookup_timeout", 15*time.Second)
	v.SetDefault("translate_target", "en")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "console")
	v.SetDefault("log_caller", false)
	v.SetDefault("service_name", "relay-bot")
}

// Load reads .env (when present) and resolves every key through v, so that
// command-line flags bound to v take precedence over the environment.
func Load(v *viper.Viper) (c Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.AutomaticEnv()

	c = Config{
		BotToken:          strings.TrimSpace(v.GetString("telegram_bot_token")),
		Port:              strings.TrimSpace(v.GetString("port")),
		WebhookURL:        strings.TrimRight(strings.TrimSpace(v.GetString("webhook_url")), "/"),
		WebhookSecretPath: strings.TrimSpace(v.GetString("webhook_secret_path")),
		CompletionURL:     strings.TrimSpace(v.GetString("completion_url")),
		Model:             strings.TrimSpace(v.GetString("completion_model")),
		SystemPrompt:      v.GetString("system_prompt"),
		CompletionTimeout: v.GetDuration("completion_timeout"),
		StreamChunkSize:   v.GetInt("stream_chunk_size"),
		RateLimitWindow:   v.GetDuration("rate_limit_window"),
		HistoryCapacity:   v.GetInt("history_capacity"),
		MaxConcurrency:    v.GetInt("max_concurrency"),
		RedisURL:          strings.TrimSpace(v.GetString("redis_url")),
		LookupTimeout:     v.GetDuration("lookup_timeout"),
		TranslateTarget:   strings.TrimSpace(v.GetString("translate_target")),
		Logging: LoggingConfig{
			Level:        strings.ToLower(v.GetString("log_level")),
			Encoding:     strings.ToLower(v.GetString("log_encoding")),
			EnableCaller: v.GetBool("log_caller"),
			ServiceName:  v.GetString("service_name"),
		},
	}

	var problems []string

	if c.BotToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN is required")
	}

	rawAdmin := strings.TrimSpace(v.GetString("admin_chat_id"))
	if rawAdmin == "" {
		problems = append(problems, "ADMIN_CHAT_ID is required")
	} else if id, perr := strconv.ParseInt(rawAdmin, 10, 64); perr != nil {
		problems = append(problems, fmt.Sprintf("ADMIN_CHAT_ID must be an integer, got %q", rawAdmin))
	} else {
		c.AdminChatID = id
	}

	if c.WebhookSecretPath == "" {
		c.WebhookSecretPath = c.BotToken
	}
	if c.CompletionTimeout <= 0 {
		problems = append(problems, "COMPLETION_TIMEOUT must be a positive duration")
	}
	if c.RateLimitWindow < 0 {
		problems = append(problems, "RATE_LIMIT_WINDOW must not be negative")
	}
	if c.StreamChunkSize <= 0 {
		problems = append(problems, "STREAM_CHUNK_SIZE must be positive")
	}
	if c.MaxConcurrency <= 0 {
		problems = append(problems, "MAX_CONCURRENCY must be positive")
	}
	if c.LookupTimeout <= 0 {
		problems = append(problems, "LOOKUP_TIMEOUT must be a positive duration")
	}

	if len(problems) > 0 {
		return c, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return c, nil
}
