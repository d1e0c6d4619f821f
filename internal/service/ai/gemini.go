package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/mendy-translator-go/internal/config"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerGemini = "Gemini"

// GeminiProvider generates text with the Gemini API using the backend's
// default sampling settings.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiProvider creates the Gemini client. Without an API key the
// client is left nil and every Generate call fails with a
// missing-credential error.
func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	g := &GeminiProvider{
		model:  cfg.Model,
		logger: logger,
	}
	if cfg.APIKey == "" {
		return g, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiProvider) Name() string {
	return providerGemini
}

func (g *GeminiProvider) Model() string {
	return g.model
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (Result, error) {
	if g.client == nil {
		return Result{}, apperrors.NewGenerationError(apperrors.KindMissingCredential, providerGemini,
			"generation backend credential is not configured", fmt.Errorf("GEMINI_API_KEY is not set"))
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", g.model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}, nil)
	if err != nil {
		return Result{}, classifyGeminiError(err)
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		cause := fmt.Errorf("empty response from Gemini")
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			cause = fmt.Errorf("prompt blocked by Gemini: %s", resp.PromptFeedback.BlockReason)
		}
		return Result{}, apperrors.NewGenerationError(apperrors.KindEmptyResponse, providerGemini,
			"generation backend returned no text", cause)
	}

	g.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return Result{Text: text, Provider: providerGemini, Model: g.model}, nil
}

// Ping looks up the configured model without generating anything.
func (g *GeminiProvider) Ping(ctx context.Context) error {
	if g.client == nil {
		return apperrors.NewGenerationError(apperrors.KindMissingCredential, providerGemini,
			"generation backend credential is not configured", nil)
	}
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return classifyGeminiError(err)
	}
	return nil
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
