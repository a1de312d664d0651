package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// Summary aggregates tasks whose start date falls in [start, end]. An empty
// range yields zeros, never a division error.
func (r *AnalyticsRepo) Summary(ctx context.Context, start, end time.Time) (*domain.AnalyticsSummary, error) {
	var s domain.AnalyticsSummary

	err := r.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = $3),
		        COALESCE(avg(actual_duration) FILTER (WHERE status = $3), 0),
		        COALESCE(sum(interruption_count), 0)
		 FROM tasks
		 WHERE start_date BETWEEN $1 AND $2`,
		start, end, domain.TaskStatusCompleted,
	).Scan(&s.TotalTasks, &s.CompletedTasks, &s.AverageDuration, &s.TotalInterruptions)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: %w", err)
	}

	s.CompletionRate = domain.CompletionRate(s.CompletedTasks, s.TotalTasks)

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, interruption_count
		 FROM tasks
		 WHERE start_date BETWEEN $1 AND $2 AND interruption_count > 0
		 ORDER BY interruption_count DESC, id
		 LIMIT 5`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: interruptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.InterruptedTask
		if err := rows.Scan(&it.TaskID, &it.Title, &it.Interruptions); err != nil {
			return nil, fmt.Errorf("analyticsRepo.Summary: scan: %w", err)
		}
		s.MostInterrupted = append(s.MostInterrupted, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: rows: %w", err)
	}

	return &s, nil
}

// DailyCounts groups tasks starting in [start, end] by calendar day, ordered
// by date ascending. The series feeds the moving-average forecast.
func (r *AnalyticsRepo) DailyCounts(ctx context.Context, start, end time.Time) ([]domain.DailyCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', start_date) AS day, count(*)
		 FROM tasks
		 WHERE start_date BETWEEN $1 AND $2
		 GROUP BY day
		 ORDER BY day`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.DailyCounts: %w", err)
	}
	defer rows.Close()

	var counts []domain.DailyCount
	for rows.Next() {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("analyticsRepo.DailyCounts: scan: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analyticsRepo.DailyCounts: rows: %w", err)
	}

	return counts, nil
}
