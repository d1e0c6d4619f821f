// Package assist turns translate and advice requests into prompts, sends
// them to the generation backend and shapes the replies.
package assist

import (
	"context"
	"fmt"

	"github.com/kapu/mendy-translator-go/internal/domain"
	"github.com/kapu/mendy-translator-go/internal/prompt"
	"github.com/kapu/mendy-translator-go/internal/service/ai"
	"github.com/kapu/mendy-translator-go/internal/util"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"go.uber.org/zap"
)

const rawPreviewRunes = 200

// Service is stateless: every dependency is read-only after construction,
// so one instance serves concurrent requests.
type Service struct {
	generator ai.Generator
	builder   *prompt.PromptBuilder
	languages domain.LanguageSelector
	logger    *zap.Logger
}

func NewService(generator ai.Generator, builder *prompt.PromptBuilder, languages domain.LanguageSelector, logger *zap.Logger) (*Service, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator must not be nil")
	}
	if builder == nil {
		return nil, fmt.Errorf("prompt builder must not be nil")
	}
	if languages == nil {
		return nil, fmt.Errorf("language selector must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: generator,
		builder:   builder,
		languages: languages,
		logger:    logger,
	}, nil
}

// Translate translates an English phrase for a patient and adds context and
// suggested replies. A reply that does not follow the section layout is
// returned in degraded form rather than as an error.
func (s *Service) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	if req.Text == "" {
		return nil, apperrors.NewValidationError("No text provided", "text", req.Text)
	}

	profile := s.selectProfile(ctx, req.Language)
	logger := s.requestLogger(ctx).With(zap.String("language", profile.ID))

	promptText, err := s.builder.BuildTranslate(req.Text, profile)
	if err != nil {
		return nil, fmt.Errorf("build translate prompt: %w", err)
	}

	logger.Info("Translating", zap.String("text", util.TruncateString(req.Text, rawPreviewRunes)))
	result, err := s.generate(ctx, logger, promptText)
	if err != nil {
		return nil, err
	}

	parsed := prompt.ParseTranslation(result.Text)
	if parsed.Degraded() {
		logger.Warn("Translation reply did not match section layout",
			zap.String("missing_marker", parsed.Missing),
			zap.String("raw_preview", util.TruncateString(result.Text, rawPreviewRunes)),
		)
	}

	return &domain.TranslationResult{
		ParsedTranslation: parsed.Translation,
		Language:          profile.ID,
		Outcome:           parsed.Outcome,
		Provider:          result.Provider,
		Model:             result.Model,
	}, nil
}

// Advise describes what kind of care to seek for a symptom. The reply is
// passed through unchanged.
func (s *Service) Advise(ctx context.Context, req domain.AdviceRequest) (*domain.AdviceResult, error) {
	if req.Symptom == "" {
		return nil, apperrors.NewValidationError("No symptom provided", "symptom", req.Symptom)
	}

	profile := s.selectProfile(ctx, req.Language)
	logger := s.requestLogger(ctx).With(zap.String("language", profile.ID))

	promptText, err := s.builder.BuildAdvice(req.Symptom, profile)
	if err != nil {
		return nil, fmt.Errorf("build advice prompt: %w", err)
	}

	logger.Info("Getting advice", zap.String("symptom", util.TruncateString(req.Symptom, rawPreviewRunes)))
	result, err := s.generate(ctx, logger, promptText)
	if err != nil {
		return nil, err
	}

	return &domain.AdviceResult{
		ParsedAdvice: prompt.ParseAdvice(result.Text),
		Language:     profile.ID,
		Provider:     result.Provider,
		Model:        result.Model,
	}, nil
}

func (s *Service) generate(ctx context.Context, logger *zap.Logger, promptText string) (ai.Result, error) {
	result, err := s.generator.Generate(ctx, promptText)
	if err != nil {
		logger.Error("Generation failed",
			zap.String("provider", s.generator.Name()),
			zap.String("kind", apperrors.KindOf(err)),
			zap.Error(err),
		)
		return ai.Result{}, err
	}

	logger.Debug("Generation reply",
		zap.String("provider", result.Provider),
		zap.String("model", result.Model),
		zap.String("raw", result.Text),
	)
	return result, nil
}

func (s *Service) selectProfile(ctx context.Context, id string) *domain.LanguageProfile {
	profile, ok := s.languages.Lookup(id)
	if !ok && id != "" {
		s.requestLogger(ctx).Debug("Unknown language, using default",
			zap.String("requested", id),
			zap.String("default", profile.ID),
		)
	}
	return profile
}

func (s *Service) requestLogger(ctx context.Context) *zap.Logger {
	if id := util.RequestIDFromContext(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}
