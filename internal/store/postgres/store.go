package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type Store struct {
	pool      *pgxpool.Pool
	tasks     *TaskRepo
	events    *EventRepo
	analytics *AnalyticsRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	err = migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}

	return &Store{
		pool:      pool,
		tasks:     NewTaskRepo(pool),
		events:    NewEventRepo(pool),
		analytics: NewAnalyticsRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tasks() domain.TaskRepository          { return s.tasks }
func (s *Store) Events() domain.EventRepository        { return s.events }
func (s *Store) Analytics() domain.AnalyticsRepository { return s.analytics }
