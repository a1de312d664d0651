package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

// TaskService abstracts the lifecycle service for handler testing.
// *lifecycle.Service satisfies this interface.
type TaskService interface {
	Create(ctx context.Context, d domain.TaskDraft) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error)
	Transition(ctx context.Context, id uuid.UUID, newStatus domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordEvent(ctx context.Context, taskID uuid.UUID, et domain.EventType, description string) (*domain.TaskEvent, error)
	ListEvents(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error)
	Replay(ctx context.Context, taskID uuid.UUID) (int, error)
	ReplayByType(ctx context.Context, et domain.EventType) (int, error)
}

// AnalyticsReader abstracts the read-only analytics store for handler
// testing. *postgres.AnalyticsRepo satisfies this interface.
type AnalyticsReader interface {
	Summary(ctx context.Context, start, end time.Time) (*domain.AnalyticsSummary, error)
	DailyCounts(ctx context.Context, start, end time.Time) ([]domain.DailyCount, error)
}

// FeedbackGenerator abstracts the motivational-message collaborator for
// handler testing. The feedback package implementations satisfy it.
type FeedbackGenerator interface {
	Generate(ctx context.Context, taskName string, status domain.TaskStatus) (string, error)
}
