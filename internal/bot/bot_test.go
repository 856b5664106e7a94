package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"relayBot/internal/db/conversation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// newTelegramAPI answers every Bot API method with a minimal success.
func newTelegramAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/sendChatAction") {
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBot_KeepsArrivalOrderPerChat(t *testing.T) {
	api := newTelegramAPI(t)
	store := conversation.NewStore(0, testPrompt)
	completer := &fakeCompleter{reply: "ok"}

	text := NewTextHandler(completer, testModel, store, nil, 0, 0, nil)
	d := NewDispatcher(0, text, newQueue(t), nil)

	b, err := bot.New("123456:test-token",
		bot.WithSkipGetMe(),
		bot.WithServerURL(api.URL),
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(d.Handle),
	)
	if err != nil {
		t.Fatalf("bot.New: %v", err)
	}

	const chats = 50
	ctx := context.Background()
	for chatID := int64(1); chatID <= chats; chatID++ {
		for i, word := range []string{"1", "2", "3"} {
			b.ProcessUpdate(ctx, &models.Update{
				ID: chatID*10 + int64(i),
				Message: &models.Message{
					ID:   i + 1,
					Chat: models.Chat{ID: chatID},
					Text: word,
				},
			})
		}
	}

	waitFor(t, "all completions", func() bool { return completer.callCount() == chats*3 })

	for chatID := int64(1); chatID <= chats; chatID++ {
		var users []string
		waitFor(t, fmt.Sprintf("history of chat %d", chatID), func() bool { return len(store.Get(chatID)) == 6 })
		for _, msg := range store.Get(chatID) {
			if msg.Role == "user" {
				users = append(users, msg.Content)
			}
		}
		if strings.Join(users, ",") != "1,2,3" {
			t.Fatalf("chat %d handled out of order: %v", chatID, users)
		}
	}
}

func TestBot_ProcessUpdateReturnsBeforeCompletion(t *testing.T) {
	api := newTelegramAPI(t)
	store := conversation.NewStore(0, testPrompt)
	completer := &fakeCompleter{reply: "ok", delay: 300 * time.Millisecond}

	d := NewDispatcher(0, NewTextHandler(completer, testModel, store, nil, 0, 0, nil), newQueue(t), nil)
	b, err := bot.New("123456:test-token",
		bot.WithSkipGetMe(),
		bot.WithServerURL(api.URL),
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(d.Handle),
	)
	if err != nil {
		t.Fatalf("bot.New: %v", err)
	}

	start := time.Now()
	b.ProcessUpdate(context.Background(), textUpdate(7, 1, "slow"))
	if took := time.Since(start); took > 200*time.Millisecond {
		t.Fatalf("update handling blocked on the completion for %s", took)
	}
	waitFor(t, "completion", func() bool { return completer.callCount() == 1 })
}
