package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Append stores the event. The database assigns the id and creation
// timestamp, which are written back into e.
func (r *EventRepo) Append(ctx context.Context, e *domain.TaskEvent) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO task_events (task_id, event_type, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.TaskID, e.Type, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("eventRepo.Append: %w", err)
	}

	return nil
}

// AppendInterruption stores an INTERRUPTED event and bumps the owning task's
// interruption counter by exactly one, in one transaction. The counter is
// never batched and never decremented.
func (r *EventRepo) AppendInterruption(ctx context.Context, taskID uuid.UUID, reason string) (*domain.TaskEvent, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.AppendInterruption: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx,
		`UPDATE tasks SET interruption_count = interruption_count + 1 WHERE id = $1`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.AppendInterruption: counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("eventRepo.AppendInterruption: %w", domain.ErrNotFound)
	}

	e := &domain.TaskEvent{
		TaskID:      taskID,
		Type:        domain.EventInterrupted,
		Description: reason,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO task_events (task_id, event_type, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.TaskID, e.Type, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.AppendInterruption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("eventRepo.AppendInterruption: commit: %w", err)
	}

	return e, nil
}

// ListByTask returns the task's log in creation order, the order any replay
// must observe.
func (r *EventRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, task_id, event_type, description, created_at
		 FROM task_events WHERE task_id = $1
		 ORDER BY created_at, id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.ListByTask: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, "eventRepo.ListByTask")
}

func (r *EventRepo) ListByType(ctx context.Context, et domain.EventType) ([]*domain.TaskEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, task_id, event_type, description, created_at
		 FROM task_events WHERE event_type = $1
		 ORDER BY created_at, id`,
		et,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.ListByType: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, "eventRepo.ListByType")
}

func scanEvents(rows pgx.Rows, caller string) ([]*domain.TaskEvent, error) {
	var events []*domain.TaskEvent
	for rows.Next() {
		var e domain.TaskEvent
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Type, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return events, nil
}
