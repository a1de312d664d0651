package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type RecordEventInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		EventType   string `json:"event_type" minLength:"1" doc:"Event type (CREATED, STARTED, COMPLETED, PAUSED, INTERRUPTED, RESUMED, UPDATED, DELETED)"`
		Description string `json:"description,omitempty" doc:"Human-readable summary; for INTERRUPTED, the reason"`
	}
}

type RecordEventOutput struct {
	Body *domain.TaskEvent
}

type ListEventsInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type ListEventsOutput struct {
	Body []*domain.TaskEvent
}

type ReplayTaskEventsInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type ReplayEventsByTypeInput struct {
	Body struct {
		EventType string `json:"event_type" minLength:"1" doc:"Event type to replay"`
	}
}

type ReplayOutput struct {
	Body struct {
		Replayed int `json:"replayed" doc:"Number of events republished"`
	}
}

func RegisterEventRoutes(api huma.API, svc TaskService) {
	huma.Register(api, huma.Operation{
		OperationID: "record-task-event",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/events",
		Summary:     "Append an event to a task's log",
		Description: "INTERRUPTED additionally increments the task's interruption counter by one.",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *RecordEventInput) (*RecordEventOutput, error) {
		e, err := svc.RecordEvent(ctx, input.ID, domain.EventType(input.Body.EventType), input.Body.Description)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to record event", err)
		}

		return &RecordEventOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-task-events",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/events",
		Summary:     "List a task's events in creation order",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
		events, err := svc.ListEvents(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list events", err)
		}

		return &ListEventsOutput{Body: events}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "replay-task-events",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/events/replay",
		Summary:     "Republish a task's stored events to the live feed",
		Description: "Events are republished in creation order; the first publish failure aborts the replay.",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *ReplayTaskEventsInput) (*ReplayOutput, error) {
		n, err := svc.Replay(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrEventPublish) {
				return nil, huma.Error503ServiceUnavailable("live feed unavailable", err)
			}
			return nil, huma.Error500InternalServerError("failed to replay events", err)
		}

		out := &ReplayOutput{}
		out.Body.Replayed = n
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "replay-events-by-type",
		Method:      http.MethodPost,
		Path:        "/events/replay",
		Summary:     "Republish all stored events of one type to the live feed",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *ReplayEventsByTypeInput) (*ReplayOutput, error) {
		n, err := svc.ReplayByType(ctx, domain.EventType(input.Body.EventType))
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			if errors.Is(err, domain.ErrEventPublish) {
				return nil, huma.Error503ServiceUnavailable("live feed unavailable", err)
			}
			return nil, huma.Error500InternalServerError("failed to replay events", err)
		}

		out := &ReplayOutput{}
		out.Body.Replayed = n
		return out, nil
	})
}
