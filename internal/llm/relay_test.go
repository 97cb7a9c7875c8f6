package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type failingDoer struct {
	err   error
	calls int
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, d.err
}

func TestRelayPrimaryPassthrough(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	fallback := &failingDoer{err: errors.New("unused")}
	relay := NewRelayWithClients(srv.Client(), fallback, nil)
	p := &Provider{Name: ProviderOpenAI, URL: srv.URL, Headers: map[string]string{"Authorization": "Bearer key"}}

	resp, err := relay.Send(context.Background(), p, NewQuestionRequest("gpt-4o", "laptop will not boot"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"choices":[]}` || resp.Transport != TransportPrimary {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback must not run when primary succeeds")
	}
	if got.Model != "gpt-4o" {
		t.Fatalf("unexpected model %q", got.Model)
	}
}

func TestRelayNon200IsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	relay := NewRelayWithClients(srv.Client(), &failingDoer{err: errors.New("unused")}, nil)
	resp, err := relay.Send(context.Background(), &Provider{URL: srv.URL}, ChatRequest{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests || string(resp.Body) != `{"error":"quota"}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRelayFallsBackOnTransportError(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	primary := &failingDoer{err: errors.New("connection reset")}
	relay := NewRelayWithClients(primary, srv.Client(), nil)

	resp, err := relay.Send(context.Background(), &Provider{URL: srv.URL}, ChatRequest{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("expected one primary attempt, got %d", primary.calls)
	}
	if resp.Transport != TransportFallback || string(resp.Body) != `{"ok":true}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if userAgent != fallbackUserAgent {
		t.Fatalf("expected fallback user agent, got %q", userAgent)
	}
}

func TestRelayUnavailableWhenBothFail(t *testing.T) {
	primary := &failingDoer{err: errors.New("dial timeout")}
	fallback := &failingDoer{err: errors.New("dial timeout")}
	relay := NewRelayWithClients(primary, fallback, nil)

	_, err := relay.Send(context.Background(), &Provider{URL: "http://127.0.0.1:1"}, ChatRequest{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected one attempt each, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestRelayRejectsOversizedBody(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes+1)))
	}))
	defer srv.Close()

	relay := NewRelayWithClients(srv.Client(), srv.Client(), nil)
	p := &Provider{Name: ProviderOpenAI, URL: srv.URL}

	resp, err := relay.Send(context.Background(), p, NewQuestionRequest("gpt-4o", "laptop will not boot"))
	if !errors.Is(err, ErrUnavailable) || resp != nil {
		t.Fatalf("expected ErrUnavailable and no partial body, got %v %+v", err, resp)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected primary and fallback attempts, got %d", hits.Load())
	}
}

func TestRelayAcceptsBodyAtLimit(t *testing.T) {
	body := strings.Repeat("y", maxResponseBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	relay := NewRelayWithClients(srv.Client(), &failingDoer{err: errors.New("unused")}, nil)
	resp, err := relay.Send(context.Background(), &Provider{Name: ProviderOpenAI, URL: srv.URL}, NewQuestionRequest("gpt-4o", "laptop will not boot"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(resp.Body) != maxResponseBytes {
		t.Fatalf("expected %d bytes, got %d", maxResponseBytes, len(resp.Body))
	}
}
