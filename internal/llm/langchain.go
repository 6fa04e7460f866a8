package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderConfig selects and configures a completion backend.
type ProviderConfig struct {
	// Provider is one of "openai", "anthropic", "ollama".
	Provider string

	// Model is the provider-specific model name. Empty uses the
	// provider's default.
	Model string

	// BaseURL overrides the provider endpoint (mainly for ollama).
	BaseURL string
}

// LangchainProvider implements Provider on top of langchaingo models.
type LangchainProvider struct {
	name  string
	model llms.Model
}

// NewLangchainProvider constructs a provider from config. API keys are
// taken from the standard provider environment variables.
func NewLangchainProvider(cfg ProviderConfig) (*LangchainProvider, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)

	case "anthropic":
		opts := []anthropic.Option{}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		model, err = anthropic.New(opts...)

	case "ollama":
		opts := []ollama.Option{}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.Provider, err)
	}

	return &LangchainProvider{name: cfg.Provider, model: model}, nil
}

// Name returns the configured provider name.
func (p *LangchainProvider) Name() string {
	return p.name
}

// Complete sends the request as a system + human message pair and returns
// the first choice's content.
func (p *LangchainProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := []llms.MessageContent{}
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	callOpts := []llms.CallOption{}
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := p.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	return &CompletionResponse{Content: resp.Choices[0].Content}, nil
}

// Ensure LangchainProvider implements Provider at compile time
var _ Provider = (*LangchainProvider)(nil)
