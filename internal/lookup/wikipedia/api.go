package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"relayBot/internal/lookup"
)

type ApiWikipedia struct {
	BaseURL string
	Client  *http.Client
}

func NewApiWikipedia(client *http.Client) *ApiWikipedia {
	return &ApiWikipedia{
		BaseURL: "https://en.wikipedia.org/api/rest_v1",
		Client:  client,
	}
}

func (api *ApiWikipedia) Summary(ctx context.Context, query string) (lookup.Article, error) {
	title := strings.Join(strings.Fields(query), "_")
	if title == "" {
		return lookup.Article{}, errors.New("query is empty")
	}

	u := strings.TrimRight(api.BaseURL, "/") + "/page/summary/" + url.PathEscape(title) + "?redirect=true"

	var data summary
	if err := lookup.GetJSON(ctx, api.Client, u, &data); err != nil {
		return lookup.Article{}, err
	}
	if strings.TrimSpace(data.Extract) == "" {
		return lookup.Article{}, lookup.ErrNotFound
	}

	return lookup.Article{
		Title:   data.Title,
		Extract: strings.TrimSpace(data.Extract),
		URL:     data.ContentURLs.Desktop.Page,
	}, nil
}
