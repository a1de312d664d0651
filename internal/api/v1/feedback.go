package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type GenerateFeedbackInput struct {
	Body struct {
		TaskName string `json:"task_name" minLength:"1" doc:"Task name to comment on"`
		Status   string `json:"status" minLength:"1" enum:"pending,in-progress,completed" doc:"Status the task changed to"`
	}
}

type GenerateFeedbackOutput struct {
	Body struct {
		Message string `json:"message" doc:"One-sentence motivational message"`
	}
}

func RegisterFeedbackRoutes(api huma.API, gen FeedbackGenerator) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-feedback",
		Method:      http.MethodPost,
		Path:        "/feedback",
		Summary:     "Generate a motivational message for a task status change",
		Tags:        []string{"Feedback"},
	}, func(ctx context.Context, input *GenerateFeedbackInput) (*GenerateFeedbackOutput, error) {
		message, err := gen.Generate(ctx, input.Body.TaskName, domain.TaskStatus(input.Body.Status))
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to generate feedback", err)
		}

		out := &GenerateFeedbackOutput{}
		out.Body.Message = message
		return out, nil
	})
}
