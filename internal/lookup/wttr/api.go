package wttr

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"relayBot/internal/lookup"
)

type ApiWttr struct {
	BaseURL string
	Client  *http.Client
}

func NewApiWttr(client *http.Client) *ApiWttr {
	return &ApiWttr{
		BaseURL: "https://wttr.in",
		Client:  client,
	}
}

// Current returns wttr.in's one-line report, e.g. "Paris: ⛅️ +12°C".
func (api *ApiWttr) Current(ctx context.Context, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", errors.New("city is empty")
	}

	q := url.Values{}
	q.Set("format", "3")
	u := strings.TrimRight(api.BaseURL, "/") + "/" + url.PathEscape(city) + "?" + q.Encode()

	body, err := lookup.Get(ctx, api.Client, u)
	if err != nil {
		return "", err
	}

	report := strings.TrimSpace(string(body))
	if report == "" || strings.HasPrefix(strings.ToLower(report), "unknown location") {
		return "", lookup.ErrNotFound
	}
	return report, nil
}
