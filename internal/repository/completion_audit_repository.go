package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-intake/internal/domain"
)

// CompletionAuditRepository stores completion proxy outcomes.
type CompletionAuditRepository interface {
	Create(ctx context.Context, entry *domain.CompletionAudit) error
}

type completionAuditRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionAuditRepository builds repository.
func NewCompletionAuditRepository(pool *pgxpool.Pool) CompletionAuditRepository {
	return &completionAuditRepository{pool: pool}
}

func (r *completionAuditRepository) Create(ctx context.Context, entry *domain.CompletionAudit) error {
	const query = `
        INSERT INTO completion_audit (id, session_id, provider, model, transport, status_code, latency_ms, notes_hash, cached, error)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.SessionID,
		entry.Provider,
		entry.Model,
		entry.Transport,
		entry.StatusCode,
		entry.LatencyMS,
		entry.NotesHash,
		entry.Cached,
		entry.Error,
	).Scan(&entry.CreatedAt)
}
