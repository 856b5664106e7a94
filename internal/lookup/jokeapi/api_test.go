package jokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRandomJoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/random_joke" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":1,"type":"programming","setup":"Why do programmers prefer dark mode?","punchline":"Because light attracts bugs."}`))
	}))
	defer srv.Close()

	api := &ApiJokes{BaseURL: srv.URL, Client: srv.Client()}
	got, err := api.RandomJoke(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Setup != "Why do programmers prefer dark mode?" || got.Punchline != "Because light attracts bugs." {
		t.Fatalf("unexpected joke %+v", got)
	}
}

func TestRandomJoke_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	api := &ApiJokes{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := api.RandomJoke(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
