package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

const taskColumns = `id, title, content, start_date, end_date, author, status,
	started_at, completed_at, estimated_duration, actual_duration, interruption_count`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// Create inserts the task row and its CREATED event in one transaction, so a
// stored task always has its creation recorded in the log.
func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx,
		`INSERT INTO tasks (id, title, content, start_date, end_date, author, status,
		        started_at, completed_at, estimated_duration, actual_duration, interruption_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.Title, t.Content, t.StartDate, t.EndDate, t.Author, t.Status,
		t.StartedAt, t.CompletedAt, t.EstimatedDuration, t.ActualDuration, t.InterruptionCount,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO task_events (task_id, event_type, description) VALUES ($1, $2, $3)`,
		t.ID, domain.EventCreated, "task created: "+t.Title,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: creation event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("taskRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY start_date, id LIMIT 1000`)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.List")
}

// ListByDateRange returns tasks whose scheduled interval overlaps
// [start, end], inclusive on both ends. This is true interval overlap, not
// containment of both bounds.
func (r *TaskRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE start_date <= $2 AND end_date >= $1
		 ORDER BY start_date, id`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByDateRange: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListByDateRange")
}

// Update writes the full task row except interruption_count, which only the
// interruption-recording path may touch.
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, content = $2, start_date = $3, end_date = $4,
		        author = $5, status = $6, started_at = $7, completed_at = $8,
		        estimated_duration = $9, actual_duration = $10
		 WHERE id = $11`,
		t.Title, t.Content, t.StartDate, t.EndDate,
		t.Author, t.Status, t.StartedAt, t.CompletedAt,
		t.EstimatedDuration, t.ActualDuration,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the task and every event in its log in one transaction.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `DELETE FROM task_events WHERE task_id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: events: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("taskRepo.Delete: commit: %w", err)
	}

	return nil
}

// EstimateDuration averages the actual duration of up to five completed
// tasks whose title contains the given title (case-sensitive substring),
// scaled by 1.2 and rounded up. Falls back to the one-hour default when no
// similar task has completed.
func (r *TaskRepo) EstimateDuration(ctx context.Context, title string) (int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT actual_duration FROM tasks
		 WHERE status = $1 AND actual_duration IS NOT NULL
		   AND title LIKE '%' || $2 || '%'
		 ORDER BY completed_at DESC
		 LIMIT 5`,
		domain.TaskStatusCompleted, title,
	)
	if err != nil {
		return 0, fmt.Errorf("taskRepo.EstimateDuration: %w", err)
	}
	defer rows.Close()

	var durations []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return 0, fmt.Errorf("taskRepo.EstimateDuration: scan: %w", err)
		}
		durations = append(durations, d)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("taskRepo.EstimateDuration: rows: %w", err)
	}

	return domain.EstimateFromDurations(durations), nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Content, &t.StartDate, &t.EndDate, &t.Author, &t.Status,
		&t.StartedAt, &t.CompletedAt, &t.EstimatedDuration, &t.ActualDuration, &t.InterruptionCount,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTasks(rows pgx.Rows, caller string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}
