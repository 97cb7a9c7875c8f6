package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/config"
)

var (
	// ErrUnavailable means both the primary and the fallback transport failed.
	ErrUnavailable = errors.New("ai provider unreachable")
	// ErrResponseTooLarge is returned instead of relaying a truncated body.
	ErrResponseTooLarge = errors.New("ai response exceeds size limit")
)

const (
	TransportPrimary  = "primary"
	TransportFallback = "fallback"

	fallbackUserAgent = "support-intake/fallback"
	maxResponseBytes  = 1 << 20
)

// Response is the raw upstream answer.
type Response struct {
	StatusCode int
	Body       []byte
	Transport  string
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Relay sends a chat request through a primary client and, on transport
// failure, once through a fallback client.
type Relay struct {
	primary  Doer
	fallback Doer
	logger   *zap.Logger
}

// NewRelay builds the primary client (connect and total timeouts) and a
// separate HTTP/1.1 fallback client with its own timeout.
func NewRelay(cfg config.AIConfig, logger *zap.Logger) *Relay {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout()}
	primary := &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: cfg.ConnectTimeout(),
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	fallback := &http.Client{
		Timeout: cfg.FallbackTimeout(),
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
			ForceAttemptHTTP2: false,
		},
	}
	return NewRelayWithClients(primary, fallback, logger)
}

// NewRelayWithClients allows injecting custom transports.
func NewRelayWithClients(primary, fallback Doer, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{primary: primary, fallback: fallback, logger: logger}
}

// Send posts req to the provider. A non-200 answer is returned as a Response,
// not an error; only transport failures on both attempts yield ErrUnavailable.
func (r *Relay) Send(ctx context.Context, p *Provider, req ChatRequest) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	resp, err := r.do(ctx, r.primary, p, payload, "")
	if err == nil {
		resp.Transport = TransportPrimary
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	if isTimeout(err) {
		r.logger.Warn("ai request timed out, attempting fallback", zap.String("provider", p.Name), zap.Error(err))
	} else {
		r.logger.Warn("ai transport error, attempting fallback", zap.String("provider", p.Name), zap.Error(err))
	}

	resp, ferr := r.do(ctx, r.fallback, p, payload, fallbackUserAgent)
	if ferr != nil {
		r.logger.Error("ai fallback failed", zap.String("provider", p.Name), zap.Error(ferr))
		return nil, fmt.Errorf("%w: primary: %v; fallback: %v", ErrUnavailable, err, ferr)
	}
	resp.Transport = TransportFallback
	return resp, nil
}

func (r *Relay) do(ctx context.Context, client Doer, p *Provider, payload []byte, userAgent string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	for k, v := range p.Headers {
		httpReq.Header.Set(k, v)
	}
	if userAgent != "" {
		httpReq.Header.Set("User-Agent", userAgent)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBytes)
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
