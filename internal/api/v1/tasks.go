package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type CreateTaskInput struct {
	Body struct {
		Title     string    `json:"title" minLength:"1" maxLength:"100" doc:"Task title"`
		Content   string    `json:"content,omitempty" doc:"Free-form task notes"`
		StartDate time.Time `json:"start_date" doc:"Scheduled start"`
		EndDate   time.Time `json:"end_date" doc:"Scheduled end"`
		Author    string    `json:"author" minLength:"1" doc:"Task author"`
		Status    string    `json:"status,omitempty" enum:"pending,in-progress,completed" doc:"Initial status (defaults to pending)"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	StartDate time.Time `query:"startDate" doc:"Range start; with endDate, filters tasks overlapping the range"`
	EndDate   time.Time `query:"endDate" doc:"Range end"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title     *string    `json:"title,omitempty" maxLength:"100" doc:"Task title"`
		Content   *string    `json:"content,omitempty" doc:"Free-form task notes"`
		StartDate *time.Time `json:"start_date,omitempty" doc:"Scheduled start"`
		EndDate   *time.Time `json:"end_date,omitempty" doc:"Scheduled end"`
		Author    *string    `json:"author,omitempty" doc:"Task author"`
		Status    *string    `json:"status,omitempty" enum:"pending,in-progress,completed" doc:"Lifecycle status"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type TransitionTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Status string `json:"status" minLength:"1" doc:"Target status"`
	}
}

type TransitionTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

func RegisterTaskRoutes(api huma.API, svc TaskService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		t, err := svc.Create(ctx, domain.TaskDraft{
			Title:     input.Body.Title,
			Content:   input.Body.Content,
			StartDate: input.Body.StartDate,
			EndDate:   input.Body.EndDate,
			Author:    input.Body.Author,
			Status:    domain.TaskStatus(input.Body.Status),
		})
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to create task", err)
		}

		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks, optionally filtered by date range overlap",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		hasStart, hasEnd := !input.StartDate.IsZero(), !input.EndDate.IsZero()
		if hasStart != hasEnd {
			return nil, huma.Error400BadRequest("startDate and endDate must be given together")
		}

		var (
			tasks []*domain.Task
			err   error
		)
		if hasStart {
			tasks, err = svc.ListByDateRange(ctx, input.StartDate, input.EndDate)
		} else {
			tasks, err = svc.List(ctx)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		t, err := svc.Get(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		patch := domain.TaskPatch{
			Title:     input.Body.Title,
			Content:   input.Body.Content,
			StartDate: input.Body.StartDate,
			EndDate:   input.Body.EndDate,
			Author:    input.Body.Author,
		}
		if input.Body.Status != nil {
			status := domain.TaskStatus(*input.Body.Status)
			patch.Status = &status
		}

		t, err := svc.Update(ctx, input.ID, patch)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to update task", err)
		}

		return &UpdateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-task-status",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Transition a task's lifecycle status",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TransitionTaskInput) (*TransitionTaskOutput, error) {
		t, err := svc.Transition(ctx, input.ID, domain.TaskStatus(input.Body.Status))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to transition task", err)
		}

		return &TransitionTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task and its event log",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		return nil, nil
	})
}
