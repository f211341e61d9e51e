package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// ParseProvider accepts a provider name case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range GetAvailableProviders() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, claude)", s)
}

// GetAvailableProviders returns a list of available LLM providers
func GetAvailableProviders() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}
}

// Options carries per-provider settings resolved from config.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Factory creates LLM instances based on provider
type Factory struct{}

// NewFactory creates a new LLM factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLLM creates an LLM instance based on provider and configuration
func (f *Factory) CreateLLM(ctx context.Context, provider Provider, opts Options) (LLM, error) {
	switch provider {
	case ProviderGemini, "":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiWithModel(ctx, opts.APIKey, opts.Model)

	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if opts.Model != "" {
			return NewOpenAIWithModel(opts.APIKey, opts.Model).WithBaseURL(opts.BaseURL), nil
		}
		return NewOpenAI(opts.APIKey).WithBaseURL(opts.BaseURL), nil

	case ProviderClaude:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("Claude API key is required")
		}
		if opts.Model != "" {
			return NewClaudeWithModel(opts.APIKey, opts.Model).WithBaseURL(opts.BaseURL), nil
		}
		return NewClaude(opts.APIKey).WithBaseURL(opts.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
