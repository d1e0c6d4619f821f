package ai

import (
	"context"
	"fmt"

	"github.com/kapu/mendy-translator-go/internal/config"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const providerOpenAI = "OpenAI"

// OpenAIProvider generates text with the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider builds the client with SDK retries disabled. Without an
// API key the client is left nil and Generate fails on first use.
func NewOpenAIProvider(cfg config.OpenAIConfig, logger *zap.Logger, extra ...option.RequestOption) *OpenAIProvider {
	o := &OpenAIProvider{
		model:  cfg.Model,
		logger: logger,
	}
	if cfg.APIKey == "" {
		return o
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	client := openai.NewClient(opts...)
	o.client = &client
	return o
}

func (o *OpenAIProvider) Name() string {
	return providerOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (Result, error) {
	if o.client == nil {
		return Result{}, apperrors.NewGenerationError(apperrors.KindMissingCredential, providerOpenAI,
			"generation backend credential is not configured", fmt.Errorf("OPENAI_API_KEY is not set"))
	}

	o.logger.Debug("Generating with OpenAI",
		zap.String("model", o.model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return Result{}, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Result{}, apperrors.NewGenerationError(apperrors.KindEmptyResponse, providerOpenAI,
			"generation backend returned no text", fmt.Errorf("no choices in OpenAI response"))
	}

	text := resp.Choices[0].Message.Content
	o.logger.Debug("OpenAI response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return Result{Text: text, Provider: providerOpenAI, Model: o.model}, nil
}

// Ping retrieves the configured model's metadata.
func (o *OpenAIProvider) Ping(ctx context.Context) error {
	if o.client == nil {
		return apperrors.NewGenerationError(apperrors.KindMissingCredential, providerOpenAI,
			"generation backend credential is not configured", nil)
	}
	if _, err := o.client.Models.Get(ctx, o.model); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}
