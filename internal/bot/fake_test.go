package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"relayBot/internal/ai_model"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type sent struct {
	chatID int64
	text   string
}

type forwarded struct {
	to, from  int64
	messageID int
}

type fakeMessenger struct {
	mu        sync.Mutex
	sent      []sent
	forwarded []forwarded
	actions   int
	onSend    func(sent)
	fail      error
}

func (f *fakeMessenger) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	s := sent{chatID: p.ChatID.(int64), text: p.Text}
	f.mu.Lock()
	f.sent = append(f.sent, s)
	hook := f.onSend
	f.mu.Unlock()
	if hook != nil {
		hook(s)
	}
	return &models.Message{Text: p.Text}, nil
}

func (f *fakeMessenger) ForwardMessage(_ context.Context, p *bot.ForwardMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwarded = append(f.forwarded, forwarded{to: p.ChatID.(int64), from: p.FromChatID.(int64), messageID: p.MessageID})
	return &models.Message{}, nil
}

func (f *fakeMessenger) SendChatAction(_ context.Context, _ *bot.SendChatActionParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	return true, nil
}

func (f *fakeMessenger) texts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.sent {
		if s.chatID == chatID {
			out = append(out, s.text)
		}
	}
	return out
}

type completionCall struct {
	history      []ai_model.Message
	systemPrompt string
	model        string
}

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	delay time.Duration
	calls []completionCall
}

func (f *fakeCompleter) Complete(_ context.Context, history []ai_model.Message, systemPrompt string, model string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, completionCall{history: history, systemPrompt: systemPrompt, model: model})
	return f.reply, f.err
}

func textUpdate(chatID int64, messageID int, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   messageID,
			Chat: models.Chat{ID: chatID},
			Text: text,
		},
	}
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
