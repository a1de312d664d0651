package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

// mockTaskService implements v1.TaskService with overridable functions. The
// zero value answers every lookup with not-found and every write with
// success.
type mockTaskService struct {
	createFunc          func(ctx context.Context, d domain.TaskDraft) (*domain.Task, error)
	getFunc             func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	listFunc            func(ctx context.Context) ([]*domain.Task, error)
	listByDateRangeFunc func(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
	updateFunc          func(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error)
	transitionFunc      func(ctx context.Context, id uuid.UUID, newStatus domain.TaskStatus) (*domain.Task, error)
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	recordEventFunc     func(ctx context.Context, taskID uuid.UUID, et domain.EventType, description string) (*domain.TaskEvent, error)
	listEventsFunc      func(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error)
	replayFunc          func(ctx context.Context, taskID uuid.UUID) (int, error)
	replayByTypeFunc    func(ctx context.Context, et domain.EventType) (int, error)
}

func (m *mockTaskService) Create(ctx context.Context, d domain.TaskDraft) (*domain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, d)
	}
	return domain.NewTask(d)
}

func (m *mockTaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	if m.listByDateRangeFunc != nil {
		return m.listByDateRangeFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *mockTaskService) Update(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskService) Transition(ctx context.Context, id uuid.UUID, newStatus domain.TaskStatus) (*domain.Task, error) {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, id, newStatus)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return domain.ErrNotFound
}

func (m *mockTaskService) RecordEvent(ctx context.Context, taskID uuid.UUID, et domain.EventType, description string) (*domain.TaskEvent, error) {
	if m.recordEventFunc != nil {
		return m.recordEventFunc(ctx, taskID, et, description)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskService) ListEvents(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error) {
	if m.listEventsFunc != nil {
		return m.listEventsFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *mockTaskService) Replay(ctx context.Context, taskID uuid.UUID) (int, error) {
	if m.replayFunc != nil {
		return m.replayFunc(ctx, taskID)
	}
	return 0, nil
}

func (m *mockTaskService) ReplayByType(ctx context.Context, et domain.EventType) (int, error) {
	if m.replayByTypeFunc != nil {
		return m.replayByTypeFunc(ctx, et)
	}
	return 0, nil
}

// mockAnalyticsReader implements v1.AnalyticsReader.
type mockAnalyticsReader struct {
	summaryFunc     func(ctx context.Context, start, end time.Time) (*domain.AnalyticsSummary, error)
	dailyCountsFunc func(ctx context.Context, start, end time.Time) ([]domain.DailyCount, error)
}

func (m *mockAnalyticsReader) Summary(ctx context.Context, start, end time.Time) (*domain.AnalyticsSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, start, end)
	}
	return &domain.AnalyticsSummary{}, nil
}

func (m *mockAnalyticsReader) DailyCounts(ctx context.Context, start, end time.Time) ([]domain.DailyCount, error) {
	if m.dailyCountsFunc != nil {
		return m.dailyCountsFunc(ctx, start, end)
	}
	return nil, nil
}

// mockFeedbackGenerator implements v1.FeedbackGenerator.
type mockFeedbackGenerator struct {
	generateFunc func(ctx context.Context, taskName string, status domain.TaskStatus) (string, error)
}

func (m *mockFeedbackGenerator) Generate(ctx context.Context, taskName string, status domain.TaskStatus) (string, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, taskName, status)
	}
	return "keep going", nil
}
