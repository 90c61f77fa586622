package advisor

import (
	"context"
	"fmt"
	"strings"
)

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

func New(ctx context.Context, opts Options) (Advisor, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return NewOpenAIAdvisor(opts.APIKey, opts.Model, opts.BaseURL), nil
	case "gemini":
		return NewGeminiAdvisor(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported advisor provider: %s", opts.Provider)
	}
}
