package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

func NewOpenAIClient(apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		timeout:     timeout,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Content},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", c.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ContentError{Provider: c.Name(), Reason: "no choices in response"}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &ContentError{Provider: c.Name(), Reason: "empty message content"}
	}
	return content, nil
}

func (c *OpenAIClient) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: c.Name(), Timeout: c.timeout, Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ResponseError{Provider: c.Name(), StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	return &ResponseError{Provider: c.Name(), Err: err}
}
