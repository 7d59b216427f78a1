package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient implements the rewrite.ChatCompleter contract over the
// OpenAI-compatible chat completions API.
type ChatClient struct {
	client *openai.Client
	model  string
}

// NewChatClient creates a chat client for constraint extraction.
func NewChatClient(apiKey, baseURL, model string) *ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatClient{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete returns the model's text answer for a system+user prompt pair.
// Temperature stays at zero: extraction must be deterministic, not creative.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
