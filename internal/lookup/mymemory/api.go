package mymemory

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"relayBot/internal/lookup"
)

type ApiMyMemory struct {
	BaseURL string
	Client  *http.Client
}

func NewApiMyMemory(client *http.Client) *ApiMyMemory {
	return &ApiMyMemory{
		BaseURL: "https://api.mymemory.translated.net",
		Client:  client,
	}
}

// Translate detects the source language and translates text into target
// (an ISO 639-1 code).
func (api *ApiMyMemory) Translate(ctx context.Context, text string, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("text is empty")
	}
	if target == "" {
		target = "en"
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "autodetect|"+target)
	u := strings.TrimRight(api.BaseURL, "/") + "/get?" + q.Encode()

	var data response
	if err := lookup.GetJSON(ctx, api.Client, u, &data); err != nil {
		return "", err
	}
	if st := data.status(); st != 200 {
		return "", fmt.Errorf("translation failed (%d): %s", st, data.ResponseDetails)
	}

	out := strings.TrimSpace(html.UnescapeString(data.ResponseData.TranslatedText))
	if out == "" {
		return "", lookup.ErrNotFound
	}
	return out, nil
}
