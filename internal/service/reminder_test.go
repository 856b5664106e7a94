package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

type delivery struct {
	chatID int64
	text   string
}

func TestReminderManager_Fires(t *testing.T) {
	got := make(chan delivery, 1)
	m := NewReminderManager(context.Background(), func(ctx context.Context, chatID int64, text string) {
		got <- delivery{chatID, text}
	}, nil)
	defer m.Shutdown()

	if _, err := m.Add(5, MinReminderDelay, "stretch"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Pending(5) != 1 {
		t.Fatalf("expected one pending reminder, got %d", m.Pending(5))
	}

	select {
	case d := <-got:
		if d.chatID != 5 || d.text != "stretch" {
			t.Fatalf("unexpected delivery: %+v", d)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reminder did not fire")
	}

	deadline := time.Now().Add(time.Second)
	for m.Pending(5) != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Pending(5) != 0 {
		t.Fatal("fired reminder still pending")
	}
}

func TestReminderManager_RejectsDelayOutOfRange(t *testing.T) {
	m := NewReminderManager(context.Background(), func(context.Context, int64, string) {}, nil)
	defer m.Shutdown()

	for _, d := range []time.Duration{0, 500 * time.Millisecond, MaxReminderDelay + time.Second} {
		if _, err := m.Add(1, d, "x"); !errors.Is(err, ErrReminderDelay) {
			t.Fatalf("delay %s: expected ErrReminderDelay, got %v", d, err)
		}
	}
}

func TestReminderManager_Cancel(t *testing.T) {
	fired := make(chan struct{}, 2)
	m := NewReminderManager(context.Background(), func(context.Context, int64, string) {
		fired <- struct{}{}
	}, nil)
	defer m.Shutdown()

	_, _ = m.Add(1, time.Hour, "a")
	_, _ = m.Add(1, time.Hour, "b")
	_, _ = m.Add(2, time.Hour, "c")

	if n := m.Cancel(1); n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if m.Pending(1) != 0 || m.Pending(2) != 1 {
		t.Fatal("cancel touched the wrong chat")
	}
}
