package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// MaxTitleLength is the upper bound on task titles, in runes.
const MaxTitleLength = 100

// DefaultEstimatedDuration is used when no similar completed task exists
// to base an estimate on.
const DefaultEstimatedDuration = 3600

// Task is the aggregate root for one schedulable unit of work. The derived
// fields (StartedAt, CompletedAt, EstimatedDuration, ActualDuration) are
// owned by the status transition rules in ApplyStatus and must never be set
// out of step with Status.
type Task struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	Author            string     `json:"author"`
	Status            TaskStatus `json:"status"`
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	EstimatedDuration *int       `json:"estimated_duration"`
	ActualDuration    *int       `json:"actual_duration"`
	InterruptionCount int        `json:"interruption_count"`
}

// TaskDraft carries the caller-supplied fields for task creation.
type TaskDraft struct {
	Title     string
	Content   string
	StartDate time.Time
	EndDate   time.Time
	Author    string
	Status    TaskStatus // empty means pending
}

// NewTask validates a draft and constructs the aggregate. A Task is never
// partially constructed: any validation failure returns a nil task and an
// error wrapping ErrValidation.
func NewTask(d TaskDraft) (*Task, error) {
	status := d.Status
	if status == "" {
		status = TaskStatusPending
	}

	t := &Task{
		ID:        uuid.New(),
		Title:     d.Title,
		Content:   d.Content,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Author:    d.Author,
		Status:    status,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate enforces the creation invariants. Update paths re-run it against
// the merged field set so a partial patch can never produce a task that
// would have failed creation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return fmt.Errorf("title exceeds %d characters: %w", MaxTitleLength, ErrValidation)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("start date is not a valid timestamp: %w", ErrValidation)
	}
	if t.EndDate.IsZero() {
		return fmt.Errorf("end date is not a valid timestamp: %w", ErrValidation)
	}
	if t.StartDate.After(t.EndDate) {
		return fmt.Errorf("end date must not precede start date: %w", ErrValidation)
	}
	if strings.TrimSpace(t.Author) == "" {
		return fmt.Errorf("author is required: %w", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, ErrValidation)
	}

	return nil
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title     *string
	Content   *string
	StartDate *time.Time
	EndDate   *time.Time
	Author    *string
	Status    *TaskStatus
}

// Merge returns a copy of t with the patch applied. Derived timestamp and
// duration fields are not touched here; when the patch includes a status
// change the caller applies ApplyStatus on the merged copy.
func (t *Task) Merge(p TaskPatch) *Task {
	merged := *t
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Content != nil {
		merged.Content = *p.Content
	}
	if p.StartDate != nil {
		merged.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		merged.EndDate = *p.EndDate
	}
	if p.Author != nil {
		merged.Author = *p.Author
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}

	return &merged
}

// ApplyStatus transitions the task to the given status at the given instant
// and recomputes the derived fields:
//
//   - in-progress: StartedAt = now, completion fields cleared
//   - completed (previously started): CompletedAt = now,
//     ActualDuration = floor(now - StartedAt) in seconds
//   - completed (never started): status only; duration fields stay unset
//   - pending: full reset of all derived fields
//
// InterruptionCount is an audit counter and survives every transition,
// including a full reset to pending.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	t.Status = status

	switch status {
	case TaskStatusInProgress:
		started := now
		t.StartedAt = &started
		t.CompletedAt = nil
		t.ActualDuration = nil
	case TaskStatusCompleted:
		if t.StartedAt == nil {
			return
		}
		completed := now
		elapsed := int(now.Sub(*t.StartedAt) / time.Second)
		t.CompletedAt = &completed
		t.ActualDuration = &elapsed
	case TaskStatusPending:
		t.StartedAt = nil
		t.CompletedAt = nil
		t.EstimatedDuration = nil
		t.ActualDuration = nil
	}
}

// SetEstimatedDuration records the heuristic estimate, in seconds.
func (t *Task) SetEstimatedDuration(seconds int) {
	t.EstimatedDuration = &seconds
}

// EstimateFromDurations derives a duration estimate from the actual
// durations of similar completed tasks: the mean scaled by 1.2, rounded up.
// An empty sample falls back to DefaultEstimatedDuration.
func EstimateFromDurations(durations []int) int {
	if len(durations) == 0 {
		return DefaultEstimatedDuration
	}

	sum := 0
	for _, d := range durations {
		sum += d
	}
	mean := float64(sum) / float64(len(durations))

	return int(math.Ceil(mean * 1.2))
}

type TaskRepository interface {
	// Create persists the task and appends its CREATED event in one
	// transaction.
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context) ([]*Task, error)
	// ListByDateRange returns tasks whose [StartDate, EndDate] interval
	// overlaps [start, end], inclusive on both ends.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	// Delete removes the task and all of its events in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	// EstimateDuration averages the actual duration of up to five completed
	// tasks whose title contains the given title as a substring, scaled by
	// 1.2 and rounded up. Returns DefaultEstimatedDuration when nothing
	// matches.
	EstimateDuration(ctx context.Context, title string) (int, error)
}
