package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

// Publisher delivers lifecycle events to downstream consumers, currently the
// live task feed. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e *domain.TaskEvent) error
}

// Service orchestrates task lifecycle operations: every status change runs
// through the single transition path here, so the derived-field rules cannot
// drift between call sites.
type Service struct {
	tasks  domain.TaskRepository
	events domain.EventRepository
	pub    Publisher // nil when the live feed is disabled
}

func NewService(tasks domain.TaskRepository, events domain.EventRepository, pub Publisher) *Service {
	return &Service{tasks: tasks, events: events, pub: pub}
}

// Create validates the draft, persists the task together with its CREATED
// event, and announces it on the live feed.
func (s *Service) Create(ctx context.Context, d domain.TaskDraft) (*domain.Task, error) {
	t, err := domain.NewTask(d)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.Create: %w", err)
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("lifecycle.Create: %w", err)
	}

	s.broadcast(ctx, &domain.TaskEvent{
		TaskID:      t.ID,
		Type:        domain.EventCreated,
		Description: "task created: " + t.Title,
		CreatedAt:   time.Now(),
	})

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.Get: %w", err)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.List: %w", err)
	}
	return tasks, nil
}

func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.ListByDateRange: %w", err)
	}
	return tasks, nil
}

// Update merges the patch into the stored task, re-runs full creation
// validation on the merged result, and persists it. When the patch changes
// the status, the same derived-field transition rules apply as in
// Transition. A failed update never partially mutates stored state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error) {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.Update: %w", err)
	}

	merged := existing.Merge(p)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("lifecycle.Update: %w", err)
	}

	if p.Status != nil && *p.Status != existing.Status {
		if err := s.applyTransition(ctx, merged, *p.Status); err != nil {
			return nil, fmt.Errorf("lifecycle.Update: %w", err)
		}
	}

	if err := s.tasks.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("lifecycle.Update: %w", err)
	}

	s.record(ctx, &domain.TaskEvent{
		TaskID:      merged.ID,
		Type:        domain.EventUpdated,
		Description: "task updated: " + merged.Title,
	})

	return merged, nil
}

// Transition moves the task to newStatus:
//
//  1. load, failing with not-found when absent
//  2. estimate the duration heuristically when starting work
//  3. apply the derived-field rules
//  4. persist
//  5. append one lifecycle event
//
// A persist failure prevents the event append. An event-append failure after
// a committed persist is logged and does not roll back the state change.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus domain.TaskStatus) (*domain.Task, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("lifecycle.Transition: unknown status %q: %w", newStatus, domain.ErrValidation)
	}

	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.Transition: %w", err)
	}

	updated := *existing
	oldStatus := existing.Status

	if err := s.applyTransition(ctx, &updated, newStatus); err != nil {
		return nil, fmt.Errorf("lifecycle.Transition: %w", err)
	}

	if err := s.tasks.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("lifecycle.Transition: %w", err)
	}

	s.record(ctx, &domain.TaskEvent{
		TaskID:      updated.ID,
		Type:        domain.LifecycleEventType(newStatus),
		Description: fmt.Sprintf("status changed from %s to %s", oldStatus, newStatus),
	})

	return &updated, nil
}

// applyTransition is the one place derived fields are recomputed from a
// status change.
func (s *Service) applyTransition(ctx context.Context, t *domain.Task, newStatus domain.TaskStatus) error {
	if newStatus == domain.TaskStatusInProgress {
		estimate, err := s.tasks.EstimateDuration(ctx, t.Title)
		if err != nil {
			return err
		}
		t.SetEstimatedDuration(estimate)
	}

	t.ApplyStatus(newStatus, time.Now())

	return nil
}

// Delete removes the task and its whole event log atomically, then announces
// the deletion. The DELETED event exists only on the live feed: the stored
// log dies with its task.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lifecycle.Delete: %w", err)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("lifecycle.Delete: %w", err)
	}

	s.broadcast(ctx, &domain.TaskEvent{
		TaskID:      id,
		Type:        domain.EventDeleted,
		Description: "task deleted: " + t.Title,
		CreatedAt:   time.Now(),
	})

	return nil
}

// RecordEvent appends a caller-supplied event to a task's log. INTERRUPTED
// additionally increments the task's interruption counter by exactly one.
// RESUMED carries a fixed description and does not change the task's status;
// a resume that should also restart work is a separate Transition call.
func (s *Service) RecordEvent(ctx context.Context, taskID uuid.UUID, et domain.EventType, description string) (*domain.TaskEvent, error) {
	if !et.Valid() {
		return nil, fmt.Errorf("lifecycle.RecordEvent: unknown event type %q: %w", et, domain.ErrValidation)
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("lifecycle.RecordEvent: %w", err)
	}

	var (
		e   *domain.TaskEvent
		err error
	)
	switch et {
	case domain.EventInterrupted:
		e, err = s.events.AppendInterruption(ctx, taskID, description)
	case domain.EventResumed:
		e = &domain.TaskEvent{TaskID: taskID, Type: et, Description: "work resumed"}
		err = s.events.Append(ctx, e)
	default:
		e = &domain.TaskEvent{TaskID: taskID, Type: et, Description: description}
		err = s.events.Append(ctx, e)
	}
	if err != nil {
		return nil, fmt.Errorf("lifecycle.RecordEvent: %w", err)
	}

	s.broadcast(ctx, e)

	return e, nil
}

// ListEvents returns a task's log in creation order.
func (s *Service) ListEvents(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskEvent, error) {
	events, err := s.events.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.ListEvents: %w", err)
	}
	return events, nil
}

// Replay republishes a task's stored events to the live feed in creation
// order. The first publish failure aborts the replay; nothing is retried.
func (s *Service) Replay(ctx context.Context, taskID uuid.UUID) (int, error) {
	events, err := s.events.ListByTask(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("lifecycle.Replay: %w", err)
	}

	return s.replay(ctx, events, "lifecycle.Replay")
}

// ReplayByType republishes all stored events of one type in creation order.
func (s *Service) ReplayByType(ctx context.Context, et domain.EventType) (int, error) {
	if !et.Valid() {
		return 0, fmt.Errorf("lifecycle.ReplayByType: unknown event type %q: %w", et, domain.ErrValidation)
	}

	events, err := s.events.ListByType(ctx, et)
	if err != nil {
		return 0, fmt.Errorf("lifecycle.ReplayByType: %w", err)
	}

	return s.replay(ctx, events, "lifecycle.ReplayByType")
}

func (s *Service) replay(ctx context.Context, events []*domain.TaskEvent, caller string) (int, error) {
	if s.pub == nil {
		return 0, fmt.Errorf("%s: live feed disabled: %w", caller, domain.ErrEventPublish)
	}

	for i, e := range events {
		if err := s.pub.Publish(ctx, e); err != nil {
			return i, fmt.Errorf("%s: event %d: %w", caller, e.ID, err)
		}
	}

	return len(events), nil
}

// record appends e to the audit log after a state change has already been
// committed. Append failure here is surfaced to operators as a warning but
// never rolls back the committed change.
func (s *Service) record(ctx context.Context, e *domain.TaskEvent) {
	if err := s.events.Append(ctx, e); err != nil {
		log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrEventPublish, err)).
			Str("task_id", e.TaskID.String()).
			Str("event_type", string(e.Type)).
			Msg("event append failed after committed state change")
		return
	}

	s.broadcast(ctx, e)
}

// broadcast pushes e to the live feed when one is configured. Feed delivery
// is best-effort and never affects the request outcome.
func (s *Service) broadcast(ctx context.Context, e *domain.TaskEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		log.Debug().Err(err).
			Str("task_id", e.TaskID.String()).
			Str("event_type", string(e.Type)).
			Msg("live feed publish failed")
	}
}
