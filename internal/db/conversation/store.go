package conversation

import (
	"sort"
	"sync"

	"relayBot/internal/ai_model"
)

// Store keeps per-chat history and custom system prompts in process memory.
// History is capped at capacity entries, oldest first out; capacity <= 0
// disables the cap. Prompts survive Reset.
type Store struct {
	capacity      int
	defaultPrompt string

	mu      sync.RWMutex
	history map[int64][]ai_model.Message
	prompts map[int64]string
	seen    map[int64]struct{}
}

func NewStore(capacity int, defaultPrompt string) *Store {
	return &Store{
		capacity:      capacity,
		defaultPrompt: defaultPrompt,
		history:       make(map[int64][]ai_model.Message),
		prompts:       make(map[int64]string),
		seen:          make(map[int64]struct{}),
	}
}

func (s *Store) Append(chatID int64, message ai_model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.history[chatID], message)
	if s.capacity > 0 && len(h) > s.capacity {
		h = append([]ai_model.Message(nil), h[len(h)-s.capacity:]...)
	}
	s.history[chatID] = h
	s.seen[chatID] = struct{}{}
}

// Get returns a copy; callers may modify it freely.
func (s *Store) Get(chatID int64) []ai_model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.history[chatID]
	out := make([]ai_model.Message, len(h))
	copy(out, h)
	return out
}

// Reset drops the chat's history and reports whether there was any.
func (s *Store) Reset(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.history[chatID]
	delete(s.history, chatID)
	return ok
}

func (s *Store) SetPrompt(chatID int64, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts[chatID] = prompt
	s.seen[chatID] = struct{}{}
}

func (s *Store) GetPrompt(chatID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prompts[chatID]; ok {
		return p
	}
	return s.defaultPrompt
}

func (s *Store) HasPrompt(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.prompts[chatID]
	return ok
}

// Chats lists every chat that ever wrote to the store, in ascending order.
func (s *Store) Chats() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
