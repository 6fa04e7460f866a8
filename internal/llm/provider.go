// Package llm abstracts chat-completion providers behind a minimal
// interface. The content generator is the only consumer; the planning
// engine itself never talks to a model.
package llm

import (
	"context"
)

// CompletionRequest is a single-turn completion request.
type CompletionRequest struct {
	// System is the system prompt establishing role and output contract.
	System string

	// Prompt is the user-turn prompt.
	Prompt string

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float64

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	// Content is the raw text of the completion.
	Content string
}

// Provider defines the interface all completion providers implement.
type Provider interface {
	// Name returns the provider name (e.g. "openai", "anthropic", "ollama").
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
