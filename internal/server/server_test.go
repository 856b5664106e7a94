package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
)

type fakeProcessor struct {
	updates chan *models.Update
	panics  bool
}

func (f *fakeProcessor) ProcessUpdate(_ context.Context, upd *models.Update) {
	if f.panics {
		panic("handler exploded")
	}
	f.updates <- upd
}

func setupTestServer(t *testing.T) (http.Handler, *fakeProcessor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := &fakeProcessor{updates: make(chan *models.Update, 8)}
	s := New(context.Background(), "0", "/secret", p, nil)
	return s.Handler(), p
}

func TestHealth(t *testing.T) {
	h, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != HealthText {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestWebhook_DeliversUpdate(t *testing.T) {
	h, p := setupTestServer(t)

	body := `{"update_id": 77, "message": {"message_id": 5, "date": 0, "chat": {"id": 42, "type": "private"}, "text": "hi"}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secret", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	select {
	case u := <-p.updates:
		if u.ID != 77 || u.Message == nil || u.Message.Chat.ID != 42 || u.Message.Text != "hi" {
			t.Fatalf("unexpected update %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("update not processed")
	}
}

func TestWebhook_BadBodyStillOK(t *testing.T) {
	h, p := setupTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secret", strings.NewReader("{not json")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	select {
	case u := <-p.updates:
		t.Fatalf("unexpected update %+v", u)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebhook_WrongPath(t *testing.T) {
	h, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guess", strings.NewReader("{}")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebhook_DeliversInOrder(t *testing.T) {
	h, p := setupTestServer(t)

	for id := 1; id <= 5; id++ {
		body := fmt.Sprintf(`{"update_id": %d, "message": {"message_id": %d, "date": 0, "chat": {"id": 42, "type": "private"}, "text": "m"}}`, id, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secret", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		// Handed over before the response is written.
		select {
		case u := <-p.updates:
			if u.ID != int64(id) {
				t.Fatalf("got update %d, want %d", u.ID, id)
			}
		default:
			t.Fatalf("update %d not processed before response", id)
		}
	}
}

func TestWebhook_PanicStillOK(t *testing.T) {
	h, p := setupTestServer(t)
	p.panics = true

	rec := httptest.NewRecorder()
	body := `{"update_id": 1, "message": {"message_id": 1, "date": 0, "chat": {"id": 42, "type": "private"}, "text": "m"}}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secret", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
