package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on startup. Statements are idempotent so repeated boots
// against the same database are safe.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                 UUID PRIMARY KEY,
	title              TEXT NOT NULL,
	content            TEXT NOT NULL DEFAULT '',
	start_date         TIMESTAMPTZ NOT NULL,
	end_date           TIMESTAMPTZ NOT NULL,
	author             TEXT NOT NULL,
	status             TEXT NOT NULL,
	started_at         TIMESTAMPTZ,
	completed_at       TIMESTAMPTZ,
	estimated_duration INTEGER,
	actual_duration    INTEGER,
	interruption_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS task_events (
	id          BIGSERIAL PRIMARY KEY,
	task_id     UUID NOT NULL REFERENCES tasks(id),
	event_type  TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS tasks_start_date_idx ON tasks (start_date);
CREATE INDEX IF NOT EXISTS task_events_task_created_idx ON task_events (task_id, created_at);
`

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
