package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/api/http/handlers"
	"github.com/spec-kit/support-intake/internal/auth"
	"github.com/spec-kit/support-intake/internal/config"
	"github.com/spec-kit/support-intake/internal/llm"
	"github.com/spec-kit/support-intake/internal/observability"
	"github.com/spec-kit/support-intake/internal/service"
)

const upstreamBody = `{"choices":[{"message":{"content":"SUBJECT: Printer issue"}}]}`

type testServer struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, ai config.AIConfig, requireSession bool, rl config.RateLimitConfig) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("test-secret", time.Minute)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)

	completion := service.NewCompletionService(ai, service.CompletionDependencies{
		Sender: llm.NewRelay(ai, logger),
		Logger: logger,
	})
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("support-intake", "test", nil, nil, metrics),
		Config:     handlers.NewConfigHandler(config.WebhookConfig{URL: "https://hooks.example.com/intake"}),
		Completion: handlers.NewCompletionHandler(completion),
		Session:    handlers.NewSessionHandler(tokens),
		SessionMW:  auth.NewSessionMiddleware(tokens, requireSession),
		RateLimit:  NewRateLimiter(rl),
	})
	return &testServer{app: app, tokens: tokens, metrics: metrics}
}

func upstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func aiConfig(url string) config.AIConfig {
	return config.AIConfig{
		OpenAIAPIKey:       "key",
		OpenAIURL:          url,
		OpenAIModel:        "gpt-4o",
		ConnectTimeoutSec:  1,
		TimeoutSec:         2,
		FallbackTimeoutSec: 2,
		RetryAfterSec:      30,
	}
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body, string(raw)
}

func postNotes(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestConfigEndpoint(t *testing.T) {
	ts := newTestServer(t, config.AIConfig{}, false, config.RateLimitConfig{})

	for _, path := range []string{"/get-config.php", "/api/config"} {
		status, body, _ := do(t, ts.app, httptest.NewRequest(http.MethodGet, path, nil))
		if status != http.StatusOK || body["webhookUrl"] != "https://hooks.example.com/intake" || body["status"] != "success" {
			t.Fatalf("%s: unexpected response %d %v", path, status, body)
		}
	}

	status, body, _ := do(t, ts.app, httptest.NewRequest(http.MethodPost, "/get-config.php", nil))
	if status != http.StatusMethodNotAllowed || body["error"] != "Method not allowed" {
		t.Fatalf("expected 405, got %d %v", status, body)
	}
}

func TestCompletionProxyPassthrough(t *testing.T) {
	up := upstream(t, http.StatusOK, upstreamBody)
	ts := newTestServer(t, aiConfig(up.URL), false, config.RateLimitConfig{})

	status, _, raw := do(t, ts.app, postNotes("/generate-questions.php", `{"notes":"printer on floor 2 is offline"}`))
	if status != http.StatusOK || raw != upstreamBody {
		t.Fatalf("expected verbatim relay, got %d %s", status, raw)
	}
}

func TestCompletionProxyErrors(t *testing.T) {
	up := upstream(t, http.StatusBadGateway, `bad gateway`)

	tests := []struct {
		name      string
		ai        config.AIConfig
		req       *http.Request
		wantCode  int
		wantError string
	}{
		{
			name:      "wrong method",
			ai:        aiConfig(up.URL),
			req:       httptest.NewRequest(http.MethodGet, "/generate-questions.php", nil),
			wantCode:  http.StatusMethodNotAllowed,
			wantError: "Method not allowed",
		},
		{
			name:      "empty body",
			ai:        aiConfig(up.URL),
			req:       postNotes("/generate-questions.php", ""),
			wantCode:  http.StatusBadRequest,
			wantError: "No input data received",
		},
		{
			name:      "no provider",
			ai:        config.AIConfig{},
			req:       postNotes("/api/generate-questions", `{"notes":"x"}`),
			wantCode:  http.StatusInternalServerError,
			wantError: "AI service configuration error - no API keys found",
		},
		{
			name:      "upstream non-200",
			ai:        aiConfig(up.URL),
			req:       postNotes("/generate-questions.php", `{"notes":"email sync has stopped"}`),
			wantCode:  http.StatusBadGateway,
			wantError: "AI API error",
		},
		{
			name:      "upstream unreachable",
			ai:        aiConfig("http://127.0.0.1:1/v1/chat/completions"),
			req:       postNotes("/generate-questions.php", `{"notes":"email sync has stopped"}`),
			wantCode:  http.StatusServiceUnavailable,
			wantError: "AI service temporarily unavailable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.ai, false, config.RateLimitConfig{})
			status, body, raw := do(t, ts.app, tc.req)
			if status != tc.wantCode || body["error"] != tc.wantError {
				t.Fatalf("expected %d %q, got %d %s", tc.wantCode, tc.wantError, status, raw)
			}
		})
	}
}

func TestCompletionProxyUnavailableBody(t *testing.T) {
	ts := newTestServer(t, aiConfig("http://127.0.0.1:1/v1/chat/completions"), false, config.RateLimitConfig{})
	_, body, _ := do(t, ts.app, postNotes("/generate-questions.php", `{"notes":"email sync has stopped"}`))
	if body["retry_after"] != float64(30) || body["message"] == nil {
		t.Fatalf("unexpected 503 body: %v", body)
	}
}

func TestCompletionProxySessionRequired(t *testing.T) {
	up := upstream(t, http.StatusOK, upstreamBody)
	ts := newTestServer(t, aiConfig(up.URL), true, config.RateLimitConfig{})

	status, _, _ := do(t, ts.app, postNotes("/generate-questions.php", `{"notes":"monitor is flickering"}`))
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}

	status, body, _ := do(t, ts.app, httptest.NewRequest(http.MethodGet, "/intake/session", nil))
	if status != http.StatusOK || body["token"] == nil || body["sessionId"] == nil {
		t.Fatalf("unexpected session response %d %v", status, body)
	}

	req := postNotes("/generate-questions.php", `{"notes":"monitor is flickering"}`)
	req.Header.Set(auth.SessionHeader, body["token"].(string))
	status, _, raw := do(t, ts.app, req)
	if status != http.StatusOK || raw != upstreamBody {
		t.Fatalf("expected passthrough with session, got %d %s", status, raw)
	}
}

func TestCompletionProxyRateLimited(t *testing.T) {
	up := upstream(t, http.StatusOK, upstreamBody)
	ts := newTestServer(t, aiConfig(up.URL), false, config.RateLimitConfig{PerMinute: 1, Burst: 1})

	status, _, _ := do(t, ts.app, postNotes("/generate-questions.php", `{"notes":"wifi drops every hour"}`))
	if status != http.StatusOK {
		t.Fatalf("first request should pass, got %d", status)
	}
	status, body, _ := do(t, ts.app, postNotes("/generate-questions.php", `{"notes":"wifi drops every hour"}`))
	if status != http.StatusTooManyRequests || body["retry_after"] == nil {
		t.Fatalf("expected 429 with retry_after, got %d %v", status, body)
	}
}

func TestCompletionProxyMethodCheckedFirst(t *testing.T) {
	up := upstream(t, http.StatusOK, upstreamBody)
	ts := newTestServer(t, aiConfig(up.URL), true, config.RateLimitConfig{PerMinute: 1, Burst: 1})

	// Spend the single token so the limiter would otherwise answer 429.
	first := postNotes("/generate-questions.php", `{"notes":"wifi drops every hour"}`)
	if status, _, _ := do(t, ts.app, first); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}

	tests := []struct {
		name    string
		session string
	}{
		{name: "no session"},
		{name: "invalid session", session: "not-a-token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/generate-questions.php", nil)
			if tc.session != "" {
				req.Header.Set(auth.SessionHeader, tc.session)
			}
			status, body, raw := do(t, ts.app, req)
			if status != http.StatusMethodNotAllowed || body["error"] != "Method not allowed" {
				t.Fatalf("expected 405, got %d %s", status, raw)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, config.AIConfig{}, false, config.RateLimitConfig{})
	req := httptest.NewRequest(http.MethodOptions, "/generate-questions.php", nil)
	req.Header.Set("Origin", "https://support.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := ts.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, config.AIConfig{}, false, config.RateLimitConfig{})

	status, body, _ := do(t, ts.app, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	deps, _ := body["dependencies"].(map[string]any)
	if status != http.StatusOK || deps["postgres"] != "disabled" || deps["redis"] != "disabled" {
		t.Fatalf("unexpected readiness %d %v", status, body)
	}

	status, body, _ = do(t, ts.app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if status != http.StatusOK {
		t.Fatalf("metrics status %d", status)
	}
	if requests, _ := body["requests"].(map[string]any); len(requests) == 0 {
		t.Fatalf("expected recorded requests, got %v", body)
	}
}

func TestUnknownRouteRendersJSON(t *testing.T) {
	ts := newTestServer(t, config.AIConfig{}, false, config.RateLimitConfig{})
	status, body, _ := do(t, ts.app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if status != http.StatusNotFound || body["error"] == nil {
		t.Fatalf("expected JSON 404, got %d %v", status, body)
	}
}
