package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/hanbit-dev/weekplan/internal/api/v1"
	"github.com/hanbit-dev/weekplan/internal/domain"
)

// ---------------------------------------------------------------------------
// TestRecordEvent
// ---------------------------------------------------------------------------

func TestRecordEvent(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			recordEventFunc: func(_ context.Context, id uuid.UUID, et domain.EventType, description string) (*domain.TaskEvent, error) {
				assert.Equal(t, taskID, id)
				assert.Equal(t, domain.EventInterrupted, et)
				assert.Equal(t, "urgent phone call", description)
				return &domain.TaskEvent{
					ID:          17,
					TaskID:      id,
					Type:        et,
					Description: description,
					CreatedAt:   time.Now(),
				}, nil
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/tasks/"+taskID.String()+"/events", map[string]any{
			"event_type":  "INTERRUPTED",
			"description": "urgent phone call",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.TaskEvent
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(17), body.ID)
		assert.Equal(t, domain.EventInterrupted, body.Type)
	})

	t.Run("unknown_event_type", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			recordEventFunc: func(context.Context, uuid.UUID, domain.EventType, string) (*domain.TaskEvent, error) {
				return nil, fmt.Errorf("unknown event type: %w", domain.ErrValidation)
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/tasks/"+taskID.String()+"/events", map[string]any{
			"event_type": "SNOOZED",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("missing_task", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEventRoutes(api, &mockTaskService{})

		resp := api.Post("/tasks/"+uuid.NewString()+"/events", map[string]any{
			"event_type": "PAUSED",
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestListEvents
// ---------------------------------------------------------------------------

func TestListEvents(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			listEventsFunc: func(_ context.Context, id uuid.UUID) ([]*domain.TaskEvent, error) {
				assert.Equal(t, taskID, id)
				return []*domain.TaskEvent{
					{ID: 1, TaskID: id, Type: domain.EventCreated},
					{ID: 2, TaskID: id, Type: domain.EventStarted},
				}, nil
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Get("/tasks/" + taskID.String() + "/events")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.TaskEvent
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 2)
		assert.Equal(t, domain.EventCreated, body[0].Type)
		assert.Equal(t, domain.EventStarted, body[1].Type)
	})

	t.Run("storage_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			listEventsFunc: func(context.Context, uuid.UUID) ([]*domain.TaskEvent, error) {
				return nil, errors.New("connection reset")
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Get("/tasks/" + taskID.String() + "/events")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestReplayTaskEvents
// ---------------------------------------------------------------------------

func TestReplayTaskEvents(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			replayFunc: func(_ context.Context, id uuid.UUID) (int, error) {
				assert.Equal(t, taskID, id)
				return 5, nil
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/tasks/" + taskID.String() + "/events/replay")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Replayed int `json:"replayed"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 5, body.Replayed)
	})

	t.Run("feed_disabled_maps_to_503", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			replayFunc: func(context.Context, uuid.UUID) (int, error) {
				return 0, fmt.Errorf("live feed disabled: %w", domain.ErrEventPublish)
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/tasks/" + taskID.String() + "/events/replay")
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestReplayEventsByType
// ---------------------------------------------------------------------------

func TestReplayEventsByType(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			replayByTypeFunc: func(_ context.Context, et domain.EventType) (int, error) {
				assert.Equal(t, domain.EventCompleted, et)
				return 12, nil
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/events/replay", map[string]any{
			"event_type": "COMPLETED",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Replayed int `json:"replayed"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 12, body.Replayed)
	})

	t.Run("unknown_type", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockTaskService{
			replayByTypeFunc: func(context.Context, domain.EventType) (int, error) {
				return 0, fmt.Errorf("unknown event type: %w", domain.ErrValidation)
			},
		}
		v1.RegisterEventRoutes(api, svc)

		resp := api.Post("/events/replay", map[string]any{
			"event_type": "SNOOZED",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
