package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/dimasprs/obrolan/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// DeepSeek is the alternate, non-streaming backend. It speaks the
// OpenAI-compatible completion API and adapts the single completed text
// block into a one-fragment sequence.
type DeepSeek struct {
	client *openai.Client
	model  string
}

func NewDeepSeek(apiKey, baseURL, model string) *DeepSeek {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &DeepSeek{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (d *DeepSeek) Name() string {
	return d.model
}

// EstimateCost is fixed at zero: this backend is unmetered and skips quota
// enforcement.
func (d *DeepSeek) EstimateCost(req *Request) int64 {
	return 0
}

func (d *DeepSeek) Generate(ctx context.Context, req *Request, emit func(chunk string) error) (int64, error) {
	if len(req.Image) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrImageInput, d.model)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: strings.Join(msg.Parts, "\n"),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Text,
	})

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty completion response")
	}

	if err := emit(resp.Choices[0].Message.Content); err != nil {
		return 0, err
	}
	return 0, nil
}
