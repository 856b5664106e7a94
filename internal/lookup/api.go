package lookup

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("nothing found")

type Quote struct {
	Text   string
	Author string
}

type Joke struct {
	Setup     string
	Punchline string
}

type Article struct {
	Title   string
	Extract string
	URL     string
}

type Weather interface {
	Current(ctx context.Context, city string) (string, error)
}

type Quotes interface {
	RandomQuote(ctx context.Context) (Quote, error)
}

type Jokes interface {
	RandomJoke(ctx context.Context) (Joke, error)
}

type Encyclopedia interface {
	Summary(ctx context.Context, query string) (Article, error)
}

type Translator interface {
	Translate(ctx context.Context, text string, target string) (string, error)
}
