package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/casewatch/casewatch/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionCleanup purges expired session rows from postgres.
	TaskSessionCleanup = "sessions:cleanup"
)

// SessionCleanupPayload bounds one cleanup run.
type SessionCleanupPayload struct {
	Batch int `json:"batch"`
}

// NewSessionCleanupTask constructs an Asynq task.
func NewSessionCleanupTask(payload SessionCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, data), nil
}

// SessionCleaner deletes expired session audit rows. The Redis-side
// session state expires on its own TTL; this keeps the postgres mirror
// from growing without bound.
type SessionCleaner struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewSessionCleaner constructs a SessionCleaner.
func NewSessionCleaner(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionCleaner {
	return &SessionCleaner{pool: pool, logger: logger, metrics: metrics}
}

// Handle processes TaskSessionCleanup tasks.
func (c *SessionCleaner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SessionCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Batch <= 0 {
		payload.Batch = 1000
	}

	tracker := c.metrics.Track("session_cleanup")
	tag, err := c.pool.Exec(ctx, `
		DELETE FROM sessions WHERE id IN (
			SELECT id FROM sessions WHERE expires_at < $1 LIMIT $2
		)`, time.Now().UTC(), payload.Batch)
	if err != nil {
		return tracker.End(err)
	}
	if c.logger != nil && tag.RowsAffected() > 0 {
		c.logger.Info("session cleanup", slog.Int64("deleted", tag.RowsAffected()))
	}
	return tracker.End(nil)
}
