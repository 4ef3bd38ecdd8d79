package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
}

func NewAnthropicClient(apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) *AnthropicClient {
	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
		timeout:     timeout,
	}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	maxTokens := c.maxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Content)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		return "", c.classify(err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", &ContentError{Provider: c.Name(), Reason: "no text blocks in response"}
	}
	return content, nil
}

func (c *AnthropicClient) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: c.Name(), Timeout: c.timeout, Err: err}
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ResponseError{Provider: c.Name(), StatusCode: apiErr.StatusCode, Err: err}
	}
	return &ResponseError{Provider: c.Name(), Err: err}
}
