// Package feedback produces short motivational messages for task status
// changes. The text generation itself is an external collaborator; callers
// only see Generate(taskName, status) -> message.
package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type Generator interface {
	Generate(ctx context.Context, taskName string, status domain.TaskStatus) (string, error)
}

// OpenAIGenerator asks a chat model for a one-sentence encouraging message.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, taskName string, status domain.TaskStatus) (string, error) {
	prompt := fmt.Sprintf(
		"The task %q just changed status to %q. Write one short, encouraging sentence about it.",
		taskName, status,
	)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a supportive productivity coach. Reply with exactly one sentence."),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("feedback.OpenAIGenerator.Generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("feedback.OpenAIGenerator.Generate: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// StaticGenerator serves canned messages when no API key is configured. The
// choice is deterministic per task name so repeated requests stay stable.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

var cannedMessages = map[domain.TaskStatus][]string{
	domain.TaskStatusPending: {
		"%q is back on the shelf; a fresh start is a fine start.",
		"No rush on %q, pick it up when the moment is right.",
	},
	domain.TaskStatusInProgress: {
		"You started %q, keep the momentum going!",
		"%q is underway; one focused stretch at a time.",
	},
	domain.TaskStatusCompleted: {
		"%q is done, great work!",
		"Another one down: %q is complete. Enjoy the win!",
	},
}

func (g *StaticGenerator) Generate(_ context.Context, taskName string, status domain.TaskStatus) (string, error) {
	messages, ok := cannedMessages[status]
	if !ok {
		return "", fmt.Errorf("feedback.StaticGenerator.Generate: unknown status %q: %w", status, domain.ErrValidation)
	}

	template := messages[len(taskName)%len(messages)]

	return fmt.Sprintf(template, taskName), nil
}
