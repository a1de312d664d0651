package lifecycle_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

// mockTaskRepo implements domain.TaskRepository with overridable functions.
type mockTaskRepo struct {
	createFunc          func(ctx context.Context, t *domain.Task) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	listFunc            func(ctx context.Context) ([]*domain.Task, error)
	listByDateRangeFunc func(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
	updateFunc          func(ctx context.Context, t *domain.Task) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	estimateFunc        func(ctx context.Context, title string) (int, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	if m.listByDateRangeFunc != nil {
		return m.listByDateRangeFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, t)
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTaskRepo) EstimateDuration(ctx context.Context, title string) (int, error) {
	if m.estimateFunc != nil {
		return m.estimateFunc(ctx, title)
	}
	return domain.DefaultEstimatedDuration, nil
}

// mockEventRepo implements domain.EventRepository with overridable functions.
type mockEventRepo struct {
	appendFunc             func(ctx context.Context, e *domain.TaskEvent) error
	appendInterruptionFunc func(ctx context.Context, taskID uuid.UUID, reason string) (*domain.TaskEvent, error)
	listByTaskFunc         func(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error)
	listByTypeFunc         func(ctx context.Context, et domain.EventType) ([]*domain.TaskEvent, error)
}

func (m *mockEventRepo) Append(ctx context.Context, e *domain.TaskEvent) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, e)
	}
	return nil
}

func (m *mockEventRepo) AppendInterruption(ctx context.Context, taskID uuid.UUID, reason string) (*domain.TaskEvent, error) {
	if m.appendInterruptionFunc != nil {
		return m.appendInterruptionFunc(ctx, taskID, reason)
	}
	return &domain.TaskEvent{TaskID: taskID, Type: domain.EventInterrupted, Description: reason}, nil
}

func (m *mockEventRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error) {
	if m.listByTaskFunc != nil {
		return m.listByTaskFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *mockEventRepo) ListByType(ctx context.Context, et domain.EventType) ([]*domain.TaskEvent, error) {
	if m.listByTypeFunc != nil {
		return m.listByTypeFunc(ctx, et)
	}
	return nil, nil
}

// mockPublisher records published events and optionally fails.
type mockPublisher struct {
	publishFunc func(ctx context.Context, e *domain.TaskEvent) error
	published   []*domain.TaskEvent
}

func (m *mockPublisher) Publish(ctx context.Context, e *domain.TaskEvent) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, e); err != nil {
			return err
		}
	}
	m.published = append(m.published, e)
	return nil
}
