package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

func classifyGeminiError(err error) *apperrors.GenerationError {
	if ge := classifyTransport(err, providerGemini); ge != nil {
		return ge
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return apperrors.NewGenerationError(apperrors.KindGenerationFailed, providerGemini, publicMessage(0, err), err)
	}

	kind := normalizeKind(apiErr.Status)
	return apperrors.NewGenerationError(kind, providerGemini, publicMessage(apiErr.Code, err), err).
		WithUpstreamStatus(apiErr.Code)
}

func classifyOpenAIError(err error) *apperrors.GenerationError {
	if ge := classifyTransport(err, providerOpenAI); ge != nil {
		return ge
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr == nil {
		return apperrors.NewGenerationError(apperrors.KindGenerationFailed, providerOpenAI, publicMessage(0, err), err)
	}

	category := apiErr.Code
	if category == "" {
		category = apiErr.Type
	}
	kind := normalizeKind(category)
	if kind == "" {
		kind = kindForStatus(apiErr.StatusCode)
	}
	return apperrors.NewGenerationError(kind, providerOpenAI, publicMessage(apiErr.StatusCode, err), err).
		WithUpstreamStatus(apiErr.StatusCode)
}

// classifyTransport handles failures that happen before the backend answers.
func classifyTransport(err error, provider string) *apperrors.GenerationError {
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.NewGenerationError("canceled", provider, "generation request was canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewGenerationError("deadline-exceeded", provider, "generation backend did not answer in time", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.NewGenerationError(apperrors.KindBackendUnreachable, provider, "generation backend is unreachable", err)
	}
	return nil
}

// normalizeKind turns a backend category such as PERMISSION_DENIED or
// invalid_api_key into permission-denied or invalid-api-key.
func normalizeKind(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	category = strings.ToLower(category)
	return strings.NewReplacer("_", "-", " ", "-").Replace(category)
}

func kindForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "unauthenticated"
	case status == http.StatusForbidden:
		return "permission-denied"
	case status == http.StatusTooManyRequests:
		return "rate-limited"
	case status >= 500:
		return "backend-error"
	default:
		return apperrors.KindGenerationFailed
	}
}

func publicMessage(status int, err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		strings.Contains(msg, "api key"):
		return "generation backend rejected the credential"
	case status == http.StatusTooManyRequests:
		return "generation backend quota exceeded"
	case status >= 500:
		return "generation backend is unavailable"
	case status >= 400:
		return "generation backend rejected the request"
	default:
		return "generation failed"
	}
}
