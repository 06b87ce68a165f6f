// Package openai adapts the OpenAI chat-completions API to llm.Completer so
// the assistant can run against OpenAI or any compatible gateway.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds a client. An empty baseURL uses the public OpenAI endpoint.
func NewClient(apiKey, baseURL, model string, opts ...option.RequestOption) *Client {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)

	client := openai.NewClient(all...)
	return &Client{client: &client, model: model}
}

// Model returns the model identifier requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a system + user message pair and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}
