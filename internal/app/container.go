package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kapu/mendy-translator-go/internal/config"
	"github.com/kapu/mendy-translator-go/internal/language"
	"github.com/kapu/mendy-translator-go/internal/prompt"
	"github.com/kapu/mendy-translator-go/internal/server"
	"github.com/kapu/mendy-translator-go/internal/service/ai"
	"github.com/kapu/mendy-translator-go/internal/service/assist"
	"go.uber.org/zap"
)

// Container bundles assembled services for the HTTP server and the CLI.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Languages *language.Registry
	Generator ai.Generator
	Assistant *assist.Service
}

// Build assembles the language registry, prompt templates, generation
// backend and assistant service. Everything it returns is read-only.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	registry, err := language.LoadRegistry(cfg.Language.ProfilesFile, cfg.Language.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load language profiles: %w", err)
	}
	logger.Info("Language profiles loaded",
		zap.Strings("languages", registry.IDs()),
		zap.String("default", registry.Default().ID),
	)

	builder, err := prompt.NewPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	if missing := cfg.MissingCredential(); missing != "" {
		logger.Warn("API key not found; generation requests will fail until it is set",
			zap.String("variable", missing),
			zap.String("provider", cfg.Generation.Provider),
		)
	}

	generator, err := ai.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	logger.Info("Generation backend configured",
		zap.String("provider", generator.Name()),
		zap.String("model", generator.Model()),
	)

	svc, err := assist.NewService(generator, builder, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant service: %w", err)
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Languages: registry,
		Generator: generator,
		Assistant: svc,
	}, nil
}

// Router returns the HTTP handler serving the API.
func (c *Container) Router(version string) (http.Handler, error) {
	return server.NewRouter(server.Dependencies{
		Assistant: c.Assistant,
		Languages: c.Languages,
		Backend:   c.Generator,
		Logger:    c.Logger,
		Version:   version,
	})
}

// NewServer builds the listening server for the configured address.
func (c *Container) NewServer(version string) (*server.Server, error) {
	router, err := c.Router(version)
	if err != nil {
		return nil, err
	}
	return server.New(c.Config.Server.Addr(), router, c.Logger), nil
}
