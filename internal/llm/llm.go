package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// Client wraps an OpenAI-compatible API client used to draft clinical
// narrative reports from recorded session data.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client. baseURL may point at any
// OpenAI-compatible endpoint, including a local one.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable and the credentials work.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM ping: %w", err)
	}
	return nil
}

// GenerateNarrative asks the model for a narrative progress report over a
// form's recorded sessions. The result is plain prose; it is never parsed.
func (c *Client) GenerateNarrative(ctx context.Context, form model.Form, records []model.SessionRecord) (string, error) {
	prompt := buildNarrativePrompt(form, records)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	text := resp.Choices[0].Message.Content
	slog.Debug("LLM narrative", "form", form.ID, "records", len(records), "len", len(text))
	return text, nil
}
