package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/api/dto"
	"github.com/spec-kit/support-intake/internal/auth"
)

const (
	configPath    = "/get-config.php"
	questionsPath = "/generate-questions.php"
	sessionPath   = "/intake/session"

	maxErrorBody      = 64 << 10
	maxCompletionBody = 1 << 20
)

// APIError is a non-200 answer from the intake API.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (status %d, retry after %ds)", e.Message, e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the intake API and delivers tickets to the webhook.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu      sync.Mutex
	session *dto.SessionResponse
}

// NewClient builds a client. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, logger: logger}
}

// StartSession obtains an intake session; later completion calls carry it.
func (c *Client) StartSession(ctx context.Context) (*dto.SessionResponse, error) {
	var session dto.SessionResponse
	if err := c.getJSON(ctx, sessionPath, &session); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()
	return &session, nil
}

// GenerateQuestions posts the notes to the completion proxy and returns the raw body.
func (c *Client) GenerateQuestions(ctx context.Context, notes string) ([]byte, error) {
	payload, err := json.Marshal(dto.GenerateQuestionsRequest{Notes: notes})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+questionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.session != nil {
		req.Header.Set(auth.SessionHeader, c.session.Token)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCompletionBody))
	if err != nil {
		return nil, fmt.Errorf("read questions response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// WebhookURL reads the webhook URL from the config endpoint.
func (c *Client) WebhookURL(ctx context.Context) (string, error) {
	var cfg dto.ConfigResponse
	if err := c.getJSON(ctx, configPath, &cfg); err != nil {
		return "", err
	}
	return cfg.WebhookURL, nil
}

// PostTicket posts the fields url-encoded. The response body is not inspected.
func (c *Client) PostTicket(ctx context.Context, webhookURL string, fields url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, strings.NewReader(fields.Encode()))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post ticket: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	c.logger.Info("ticket delivered", zap.Int("status", resp.StatusCode))
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	var payload dto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &APIError{StatusCode: status, Message: http.StatusText(status)}
	}
	return &APIError{StatusCode: status, Message: payload.Error, RetryAfter: payload.RetryAfter}
}
