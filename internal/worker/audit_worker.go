package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/service"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue and persists submission events in
// batches. Audit writes must never slow down a submit, so they flow through
// Redis instead of joining the reconciliation transaction.
type AuditWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_worker").Logger(),
	}
}

func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]*service.AuditEvent, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.AssignmentAuditQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev service.AuditEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &ev)
		}
	}
}

func (w *AuditWorker) flushSafe(ctx context.Context, batch []*service.AuditEvent) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk audit insert failed, using fallback")

		for _, ev := range batch {
			if err := w.persistSingle(ctx, ev); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(ev)
				w.rdb.RPush(ctx, config.WorkerKey.AssignmentAuditQueue, raw)
			}
		}
	}
}

func (w *AuditWorker) bulkInsert(ctx context.Context, batch []*service.AuditEvent) error {
	n := len(batch)

	assignmentIDs := make([]int64, 0, n)
	actions := make([]string, 0, n)
	actors := make([]string, 0, n)
	occurredAt := make([]time.Time, 0, n)

	for _, ev := range batch {
		assignmentIDs = append(assignmentIDs, ev.AssignmentID)
		actions = append(actions, ev.Action)
		actors = append(actors, ev.Actor)
		occurredAt = append(occurredAt, ev.OccurredAt)
	}

	query := `
		INSERT INTO assignment_audit (assignment_id, action, actor, occurred_at)
		SELECT u.assignment_id, u.action, u.actor, u.occurred_at
		FROM UNNEST(
			$1::bigint[],
			$2::text[],
			$3::text[],
			$4::timestamptz[]
		) AS u (assignment_id, action, actor, occurred_at)
	`

	_, err := w.pool.Exec(ctx, query, assignmentIDs, actions, actors, occurredAt)
	return err
}

func (w *AuditWorker) persistSingle(ctx context.Context, ev *service.AuditEvent) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO assignment_audit (assignment_id, action, actor, occurred_at)
		 VALUES ($1, $2, $3, $4)`,
		ev.AssignmentID, ev.Action, ev.Actor, ev.OccurredAt,
	)
	return err
}
