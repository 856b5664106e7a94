package phind

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relayBot/internal/ai_model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const errorBodyLimit = 512

type Client struct {
	URL       string
	Timeout   time.Duration
	ChunkSize int
	client    *http.Client
	logger    *zap.Logger
}

// NewClient builds a streaming completion client. The http.Client must not
// carry its own Timeout: the deadline is applied per call through the
// context so that a slow stream surfaces as a timeout.
func NewClient(url string, timeout time.Duration, chunkSize int, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		URL:       url,
		Timeout:   timeout,
		ChunkSize: chunkSize,
		client:    httpClient,
		logger:    logger,
	}
}

func (c *Client) Complete(ctx context.Context, history []ai_model.Message, systemPrompt string, model string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: history is empty", ai_model.ErrInvalidHistory)
	}
	if last := history[len(history)-1]; last.Role != ai_model.RoleUser {
		return "", fmt.Errorf("%w: last entry has role %q", ai_model.ErrInvalidHistory, last.Role)
	}

	reqID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", reqID), zap.String("model", model))

	body, err := json.Marshal(newRequest(buildMessages(history, systemPrompt), model))
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", &ai_model.UpstreamError{Kind: ai_model.KindTransport, Err: err}
	}
	prepareHttpRequest(req)

	log.Info("[Client.Complete] request", zap.Int("history", len(history)))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn("[Client.Complete] request failed", zap.Error(err))
		return "", classify(ctx, err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			log.Debug("[Client.Complete] Body.Close()", zap.Error(cerr))
		}
	}(resp.Body)

	if !isRequestSuccessful(resp.StatusCode) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		log.Warn("[Client.Complete] request rejected", zap.Int("status", resp.StatusCode))
		return "", &ai_model.UpstreamError{
			Kind:   ai_model.KindStatus,
			Status: resp.StatusCode,
			Err:    errors.New(strings.TrimSpace(string(snippet))),
		}
	}

	text, err := Reassemble(resp.Body, c.ChunkSize, log)
	if err != nil {
		log.Warn("[Client.Complete] stream interrupted", zap.Error(err), zap.Int("partial", len(text)))
		return "", classify(ctx, err)
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("[Client.Complete] empty reply")
		return "", &ai_model.UpstreamError{Kind: ai_model.KindEmpty}
	}

	log.Info("[Client.Complete] done", zap.Duration("took", time.Since(start)), zap.Int("chars", len(text)))
	return text, nil
}

func prepareHttpRequest(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	// empty value: net/http sends no User-Agent at all
	req.Header.Set("User-Agent", "")
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ai_model.UpstreamError{Kind: ai_model.KindTimeout, Err: err}
	}
	return &ai_model.UpstreamError{Kind: ai_model.KindTransport, Err: err}
}

func isRequestSuccessful(status int) bool {
	return status >= 200 && status < 300
}
