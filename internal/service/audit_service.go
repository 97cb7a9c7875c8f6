package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/domain"
	"github.com/spec-kit/support-intake/internal/events"
	"github.com/spec-kit/support-intake/internal/repository"
)

// AuditService records completion proxy outcomes.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.CompletionAuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. repo may be nil when Postgres is not configured.
func NewAuditService(dispatcher events.Dispatcher, repo repository.CompletionAuditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventCompletionRelayed, a.handleCompletion)
	a.dispatcher.Subscribe(events.EventCompletionFailed, a.handleCompletion)
}

func (a *AuditService) handleCompletion(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CompletionPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	a.logger.Info(string(event.Type),
		zap.String("session_id", event.SessionID),
		zap.String("provider", payload.Provider),
		zap.String("transport", payload.Transport),
		zap.Int("status", payload.StatusCode),
		zap.Int64("latency_ms", payload.LatencyMS),
		zap.Bool("cached", payload.Cached))

	if a.repo == nil {
		return nil
	}

	entry := &domain.CompletionAudit{
		ID:         event.ID,
		SessionID:  event.SessionID,
		Provider:   payload.Provider,
		Model:      payload.Model,
		Transport:  payload.Transport,
		StatusCode: payload.StatusCode,
		LatencyMS:  payload.LatencyMS,
		NotesHash:  payload.NotesHash,
		Cached:     payload.Cached,
		Error:      payload.Error,
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn("persist completion audit", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}
