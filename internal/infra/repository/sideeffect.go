package repository

import (
	"context"
	"encoding/json"
	"time"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Job statuses. queued jobs are picked up when run_at is due; dead_letter
// jobs are kept for operator inspection, never retried automatically.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusDeadLetter = "dead_letter"
)

type Job struct {
	ID          uuid.UUID
	Topic       string
	Payload     json.RawMessage
	RunAt       time.Time
	Attempts    int32
	MaxAttempts int32
	Status      string
	LastError   *string
	CreatedAt   time.Time
}

type SideEffectRepository struct {
	pool        *pgxpool.Pool
	maxAttempts int32
}

func NewSideEffectRepository(pool *pgxpool.Pool, maxAttempts int32) *SideEffectRepository {
	return &SideEffectRepository{pool: pool, maxAttempts: maxAttempts}
}

const enqueueJobQuery = `
INSERT INTO side_effect_jobs (id, topic, payload, run_at, attempts, max_attempts, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, $5, $6, now(), now())
`

func (r *SideEffectRepository) Enqueue(ctx context.Context, topic string, payload any, runAt time.Time) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal job payload", err)
	}

	_, err = r.pool.Exec(ctx, enqueueJobQuery,
		uuid.New(), topic, data, runAt, r.maxAttempts, JobStatusQueued)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue side-effect job", err)
	}
	return nil
}

// ClaimDue atomically claims a batch of due jobs. SKIP LOCKED lets multiple
// worker instances poll the same table without double-dispatching.
const claimDueJobsQuery = `
WITH due AS (
	SELECT id FROM side_effect_jobs
	WHERE status = $1 AND run_at <= $2
	ORDER BY run_at
	LIMIT $3
	FOR UPDATE SKIP LOCKED
)
UPDATE side_effect_jobs j
SET status = $4, updated_at = now()
FROM due
WHERE j.id = due.id
RETURNING j.id, j.topic, j.payload, j.run_at, j.attempts, j.max_attempts, j.status, j.last_error, j.created_at
`

func (r *SideEffectRepository) ClaimDue(ctx context.Context, now time.Time, limit int32) ([]Job, error) {
	rows, err := r.pool.Query(ctx, claimDueJobsQuery,
		JobStatusQueued, now, limit, JobStatusProcessing)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due jobs", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job       Job
			lastError pgtype.Text
		)
		if err := rows.Scan(&job.ID, &job.Topic, &job.Payload, &job.RunAt,
			&job.Attempts, &job.MaxAttempts, &job.Status, &lastError, &job.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan job", err)
		}
		job.LastError = pgconv.StringPtrFromPgtype(lastError)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate jobs", err)
	}

	return jobs, nil
}

const markJobDoneQuery = `
UPDATE side_effect_jobs
SET status = $2, updated_at = now()
WHERE id = $1
`

func (r *SideEffectRepository) MarkDone(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, markJobDoneQuery, jobID, JobStatusDone)
	if err != nil {
		return infra.WrapRepoErr("failed to mark job done", err)
	}
	return nil
}

const markJobRetryQuery = `
UPDATE side_effect_jobs
SET status = $2, attempts = attempts + 1, run_at = $3, last_error = $4, updated_at = now()
WHERE id = $1
`

func (r *SideEffectRepository) MarkRetry(ctx context.Context, jobID uuid.UUID, runAt time.Time, lastError string) error {
	_, err := r.pool.Exec(ctx, markJobRetryQuery, jobID, JobStatusQueued, runAt, lastError)
	if err != nil {
		return infra.WrapRepoErr("failed to mark job for retry", err)
	}
	return nil
}

const markJobDeadLetterQuery = `
UPDATE side_effect_jobs
SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = now()
WHERE id = $1
`

func (r *SideEffectRepository) MarkDeadLetter(ctx context.Context, jobID uuid.UUID, lastError string) error {
	_, err := r.pool.Exec(ctx, markJobDeadLetterQuery, jobID, JobStatusDeadLetter, lastError)
	if err != nil {
		return infra.WrapRepoErr("failed to mark job dead-lettered", err)
	}
	return nil
}
