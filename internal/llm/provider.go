// Package llm abstracts the summarization backends (OpenAI, Anthropic).
package llm

import "context"

// Request is one completion call: a system instruction plus user content.
type Request struct {
	System  string
	Content string
}

// Client is a single-shot completion backend. Implementations apply their
// own per-call timeout and classify failures into the error types in
// errors.go. No implementation retries.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
