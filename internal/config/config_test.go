package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "7498724465")
}

func TestLoad_Defaults(t *testing.T) {
	setupEnv(t)

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.AdminChatID != 7498724465 {
		t.Fatalf("unexpected admin id: %d", cfg.AdminChatID)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.Model != DefaultModel || cfg.SystemPrompt != DefaultSystemPrompt {
		t.Fatalf("unexpected completion defaults: %q %q", cfg.Model, cfg.SystemPrompt)
	}
	if cfg.CompletionTimeout != 90*time.Second {
		t.Fatalf("unexpected completion timeout: %s", cfg.CompletionTimeout)
	}
	if cfg.UsesWebhook() {
		t.Fatal("expected long polling without WEBHOOK_URL")
	}
	if cfg.WebhookPath() != "/123:abc" {
		t.Fatalf("secret path should default to token, got %s", cfg.WebhookPath())
	}
}

func TestLoad_Overrides(t *testing.T) {
	setupEnv(t)
	t.Setenv("WEBHOOK_URL", "https://bot.example.com/")
	t.Setenv("WEBHOOK_SECRET_PATH", "hook-42")
	t.Setenv("RATE_LIMIT_WINDOW", "1500ms")
	t.Setenv("HISTORY_CAPACITY", "6")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !cfg.UsesWebhook() || cfg.WebhookURL != "https://bot.example.com" {
		t.Fatalf("unexpected webhook url: %q", cfg.WebhookURL)
	}
	if cfg.WebhookPath() != "/hook-42" {
		t.Fatalf("unexpected webhook path: %s", cfg.WebhookPath())
	}
	if cfg.RateLimitWindow != 1500*time.Millisecond {
		t.Fatalf("unexpected window: %s", cfg.RateLimitWindow)
	}
	if cfg.HistoryCapacity != 6 {
		t.Fatalf("unexpected capacity: %d", cfg.HistoryCapacity)
	}
}

func TestLoad_FlagValueWins(t *testing.T) {
	setupEnv(t)
	t.Setenv("PORT", "9000")

	v := viper.New()
	v.Set("port", "7070")
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected explicit value to win, got %s", cfg.Port)
	}
}

func TestLoad_ReportsAllMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_ID", "")

	_, err := Load(viper.New())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "ADMIN_CHAT_ID"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in error, got %v", key, err)
		}
	}
}

func TestLoad_RejectsBadAdminID(t *testing.T) {
	setupEnv(t)
	t.Setenv("ADMIN_CHAT_ID", "admin")

	_, err := Load(viper.New())
	if err == nil || !strings.Contains(err.Error(), "ADMIN_CHAT_ID must be an integer") {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestLoad_RejectsBadTimeout(t *testing.T) {
	setupEnv(t)
	t.Setenv("COMPLETION_TIMEOUT", "soon")

	_, err := Load(viper.New())
	if err == nil || !strings.Contains(err.Error(), "COMPLETION_TIMEOUT") {
		t.Fatalf("unexpected err: %v", err)
	}
}
