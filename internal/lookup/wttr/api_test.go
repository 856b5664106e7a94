package wttr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"relayBot/internal/lookup"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/New York" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "3" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("New York: ☀️ +21°C\n"))
	}))
	defer srv.Close()

	api := &ApiWttr{BaseURL: srv.URL, Client: srv.Client()}
	got, err := api.Current(context.Background(), " New York ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "New York: ☀️ +21°C" {
		t.Fatalf("got %q", got)
	}
}

func TestCurrent_UnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Unknown location; please try ~40.7,-74.0"))
	}))
	defer srv.Close()

	api := &ApiWttr{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := api.Current(context.Background(), "Atlantis"); !errors.Is(err, lookup.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurrent_EmptyCity(t *testing.T) {
	api := NewApiWttr(http.DefaultClient)
	if _, err := api.Current(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty city")
	}
}
