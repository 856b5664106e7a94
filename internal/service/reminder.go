package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinReminderDelay = time.Second
	MaxReminderDelay = 24 * time.Hour
)

var ErrReminderDelay = errors.New("reminder delay out of range")

type Notify func(ctx context.Context, chatID int64, text string)

type Reminder struct {
	ID     string
	ChatID int64
	Text   string
	Due    time.Time
	timer  *time.Timer
}

// ReminderManager holds one-shot reminders per chat until they fire or are
// cancelled.
type ReminderManager struct {
	ctx    context.Context
	notify Notify
	logger *zap.Logger

	mu        sync.Mutex
	reminders map[int64]map[string]*Reminder
}

func NewReminderManager(ctx context.Context, notify Notify, logger *zap.Logger) *ReminderManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderManager{
		ctx:       ctx,
		notify:    notify,
		logger:    logger,
		reminders: make(map[int64]map[string]*Reminder),
	}
}

func (m *ReminderManager) Add(chatID int64, delay time.Duration, text string) (*Reminder, error) {
	if delay < MinReminderDelay || delay > MaxReminderDelay {
		return nil, ErrReminderDelay
	}

	r := &Reminder{
		ID:     uuid.NewString(),
		ChatID: chatID,
		Text:   text,
		Due:    time.Now().Add(delay),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reminders[chatID] == nil {
		m.reminders[chatID] = make(map[string]*Reminder)
	}
	m.reminders[chatID][r.ID] = r
	r.timer = time.AfterFunc(delay, func() { m.fire(r) })

	m.logger.Info("[ReminderManager.Add] scheduled", zap.Int64("chat_id", chatID), zap.String("id", r.ID), zap.Duration("delay", delay))
	return r, nil
}

func (m *ReminderManager) Pending(chatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.reminders[chatID])
}

// Cancel stops every pending reminder of the chat and returns how many there were.
func (m *ReminderManager) Cancel(chatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.reminders[chatID] {
		if r.timer.Stop() {
			n++
		}
	}
	delete(m.reminders, chatID)
	return n
}

func (m *ReminderManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rs := range m.reminders {
		for _, r := range rs {
			r.timer.Stop()
		}
	}
	m.reminders = make(map[int64]map[string]*Reminder)
	m.logger.Info("[ReminderManager.Shutdown] all reminders stopped")
}

func (m *ReminderManager) fire(r *Reminder) {
	m.mu.Lock()
	rs, ok := m.reminders[r.ChatID]
	if ok {
		_, ok = rs[r.ID]
		delete(rs, r.ID)
		if len(rs) == 0 {
			delete(m.reminders, r.ChatID)
		}
	}
	m.mu.Unlock()

	if !ok || m.ctx.Err() != nil {
		return
	}
	m.logger.Info("[ReminderManager.fire] delivering", zap.Int64("chat_id", r.ChatID), zap.String("id", r.ID))
	m.notify(m.ctx, r.ChatID, r.Text)
}
