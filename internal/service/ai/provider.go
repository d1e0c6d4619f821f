package ai

import (
	"context"
	"fmt"

	"github.com/kapu/mendy-translator-go/internal/config"
	"go.uber.org/zap"
)

// Generator sends a single prompt to a text generation backend and returns
// the complete reply. Implementations make exactly one backend call per
// Generate and never retry.
type Generator interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (Result, error)
	Ping(ctx context.Context) error
}

// Result is a successful generation.
type Result struct {
	Text     string
	Provider string
	Model    string
}

// NewGenerator constructs the provider selected in cfg. A missing API key
// does not fail construction; the provider reports it on first use.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, error) {
	switch cfg.Generation.Provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini, logger)
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI, logger), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}
