package jokeapi

import (
	"context"
	"net/http"
	"strings"

	"relayBot/internal/lookup"
)

type response struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

type ApiJokes struct {
	BaseURL string
	Client  *http.Client
}

func NewApiJokes(client *http.Client) *ApiJokes {
	return &ApiJokes{
		BaseURL: "https://official-joke-api.appspot.com",
		Client:  client,
	}
}

func (api *ApiJokes) RandomJoke(ctx context.Context) (lookup.Joke, error) {
	var data response
	if err := lookup.GetJSON(ctx, api.Client, strings.TrimRight(api.BaseURL, "/")+"/random_joke", &data); err != nil {
		return lookup.Joke{}, err
	}
	if strings.TrimSpace(data.Setup) == "" {
		return lookup.Joke{}, lookup.ErrNotFound
	}
	return lookup.Joke{Setup: data.Setup, Punchline: data.Punchline}, nil
}
