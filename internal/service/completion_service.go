package service

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/support-intake/internal/config"
	"github.com/spec-kit/support-intake/internal/events"
	"github.com/spec-kit/support-intake/internal/llm"
	"github.com/spec-kit/support-intake/internal/repository"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

const inflightTTL = 30 * time.Second

// CompletionSender abstracts the upstream transport.
type CompletionSender interface {
	Send(ctx context.Context, p *llm.Provider, req llm.ChatRequest) (*llm.Response, error)
}

// CompletionService validates notes and relays the triage request upstream.
type CompletionService struct {
	cfg        config.AIConfig
	sender     CompletionSender
	cache      repository.CompletionCache
	inflight   repository.InflightGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CompletionDependencies bundles collaborators for the completion service.
type CompletionDependencies struct {
	Sender     CompletionSender
	Cache      repository.CompletionCache
	Inflight   repository.InflightGuard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// GenerateInput is a raw Completion Proxy request.
type GenerateInput struct {
	Body      []byte
	SessionID string
}

// GenerateResult is the upstream body to relay verbatim.
type GenerateResult struct {
	Body      []byte
	Provider  string
	Transport string
	Cached    bool
}

// NewCompletionService constructs the service.
func NewCompletionService(cfg config.AIConfig, deps CompletionDependencies) *CompletionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := deps.Cache
	if cache == nil {
		cache = repository.NewCompletionCache(nil)
	}
	inflight := deps.Inflight
	if inflight == nil {
		inflight = repository.NewMemoryInflightGuard()
	}
	return &CompletionService{
		cfg:        cfg,
		sender:     deps.Sender,
		cache:      cache,
		inflight:   inflight,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate runs provider selection, validation, the in-flight guard, the
// cache lookup and the upstream call, in that order.
func (s *CompletionService) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	provider, err := llm.SelectProvider(s.cfg)
	if err != nil {
		s.logger.Error("no AI service configuration found")
		return nil, apperrors.NewConfigurationError("AI service configuration error - no API keys found")
	}
	s.logger.Info("ai service selected", zap.String("provider", provider.Name), zap.String("model", provider.Model))

	notes, err := ValidateNotes(input.Body)
	if err != nil {
		s.logger.Info("notes rejected", zap.String("reason", err.Error()), zap.Int("body_bytes", len(input.Body)))
		return nil, err
	}

	if input.SessionID != "" {
		acquired, err := s.inflight.Acquire(ctx, input.SessionID, inflightTTL)
		if err != nil {
			s.logger.Warn("in-flight guard unavailable", zap.Error(err))
		} else if !acquired {
			return nil, apperrors.NewConflict("A question request is already in progress for this session")
		} else {
			defer func() {
				if err := s.inflight.Release(context.WithoutCancel(ctx), input.SessionID); err != nil {
					s.logger.Warn("release in-flight guard", zap.Error(err))
				}
			}()
		}
	}

	fingerprint := Fingerprint(provider.Name, provider.Model, notes)
	if body, ok, err := s.cache.Get(ctx, fingerprint); err != nil {
		s.logger.Warn("completion cache read failed", zap.Error(err))
	} else if ok {
		s.logger.Info("completion cache hit", zap.String("notes_hash", fingerprint))
		s.publish(ctx, events.EventCompletionRelayed, input.SessionID, events.CompletionPayload{
			Provider:   provider.Name,
			Model:      provider.Model,
			StatusCode: http.StatusOK,
			NotesHash:  fingerprint,
			Cached:     true,
		})
		return &GenerateResult{Body: body, Provider: provider.Name, Cached: true}, nil
	}

	start := s.now()
	resp, err := s.sender.Send(ctx, provider, llm.NewQuestionRequest(provider.Model, notes))
	latency := s.now().Sub(start).Milliseconds()
	if err != nil {
		s.publish(ctx, events.EventCompletionFailed, input.SessionID, events.CompletionPayload{
			Provider:   provider.Name,
			Model:      provider.Model,
			StatusCode: http.StatusServiceUnavailable,
			LatencyMS:  latency,
			NotesHash:  fingerprint,
			Error:      err.Error(),
		})
		if errors.Is(err, llm.ErrUnavailable) {
			return nil, apperrors.NewUpstreamUnavailable(s.cfg.RetryAfterSec, err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	payload := events.CompletionPayload{
		Provider:   provider.Name,
		Model:      provider.Model,
		Transport:  resp.Transport,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		NotesHash:  fingerprint,
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("ai api returned non-200", zap.Int("status", resp.StatusCode), zap.String("transport", resp.Transport))
		payload.Error = "upstream status"
		s.publish(ctx, events.EventCompletionFailed, input.SessionID, payload)
		return nil, apperrors.NewUpstreamStatus(resp.StatusCode, resp.Body)
	}

	if err := s.cache.Set(ctx, fingerprint, resp.Body, s.cfg.CacheTTL()); err != nil {
		s.logger.Warn("completion cache write failed", zap.Error(err))
	}
	s.publish(ctx, events.EventCompletionRelayed, input.SessionID, payload)

	return &GenerateResult{Body: resp.Body, Provider: provider.Name, Transport: resp.Transport}, nil
}

func (s *CompletionService) publish(ctx context.Context, eventType events.EventType, sessionID string, payload events.CompletionPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish completion event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// Fingerprint hashes the request identity so notes never appear in cache keys or audit rows.
func Fingerprint(provider, model, notes string) string {
	sum := blake2b.Sum256([]byte(provider + "\x00" + model + "\x00" + notes))
	return hex.EncodeToString(sum[:])
}
