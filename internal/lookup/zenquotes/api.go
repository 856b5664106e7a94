package zenquotes

import (
	"context"
	"net/http"
	"strings"

	"relayBot/internal/lookup"
)

type ApiZenQuotes struct {
	BaseURL string
	Client  *http.Client
}

func NewApiZenQuotes(client *http.Client) *ApiZenQuotes {
	return &ApiZenQuotes{
		BaseURL: "https://zenquotes.io/api",
		Client:  client,
	}
}

func (api *ApiZenQuotes) RandomQuote(ctx context.Context) (lookup.Quote, error) {
	var data []quote
	if err := lookup.GetJSON(ctx, api.Client, strings.TrimRight(api.BaseURL, "/")+"/random", &data); err != nil {
		return lookup.Quote{}, err
	}
	if len(data) == 0 || strings.TrimSpace(data[0].Q) == "" {
		return lookup.Quote{}, lookup.ErrNotFound
	}
	return lookup.Quote{Text: strings.TrimSpace(data[0].Q), Author: strings.TrimSpace(data[0].A)}, nil
}
