package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated     EventType = "CREATED"
	EventStarted     EventType = "STARTED"
	EventCompleted   EventType = "COMPLETED"
	EventPaused      EventType = "PAUSED"
	EventInterrupted EventType = "INTERRUPTED"
	EventResumed     EventType = "RESUMED"
	EventUpdated     EventType = "UPDATED"
	EventDeleted     EventType = "DELETED"
)

// Valid reports whether et is one of the canonical event types.
func (et EventType) Valid() bool {
	switch et {
	case EventCreated, EventStarted, EventCompleted, EventPaused,
		EventInterrupted, EventResumed, EventUpdated, EventDeleted:
		return true
	default:
		return false
	}
}

// LifecycleEventType maps a target status to the event recorded for the
// transition: in-progress is STARTED, completed is COMPLETED, pending is
// PAUSED. Anything else falls back to UPDATED.
func LifecycleEventType(status TaskStatus) EventType {
	switch status {
	case TaskStatusInProgress:
		return EventStarted
	case TaskStatusCompleted:
		return EventCompleted
	case TaskStatusPending:
		return EventPaused
	default:
		return EventUpdated
	}
}

// TaskEvent is one immutable entry in a task's audit log. Events are
// append-only: nothing updates or deletes an individual event, and the whole
// log is removed only when the owning task is deleted.
type TaskEvent struct {
	ID          int64     `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	Type        EventType `json:"event_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type EventRepository interface {
	// Append stores the event and fills in its assigned ID and CreatedAt.
	Append(ctx context.Context, e *TaskEvent) error
	// AppendInterruption stores an INTERRUPTED event and increments the
	// owning task's interruption counter by exactly one, in one transaction.
	AppendInterruption(ctx context.Context, taskID uuid.UUID, reason string) (*TaskEvent, error)
	// ListByTask returns a task's events in creation order.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*TaskEvent, error)
	// ListByType returns all events of one type in creation order.
	ListByType(ctx context.Context, et EventType) ([]*TaskEvent, error)
}
