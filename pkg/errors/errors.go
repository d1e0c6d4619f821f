package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeGeneration = "GENERATION_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

// Generation error kinds used when the backend does not report its own category.
const (
	KindMissingCredential  = "missing-credential"
	KindBackendUnreachable = "backend-unreachable"
	KindEmptyResponse      = "empty-response"
	KindGenerationFailed   = "generation-failed"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ValidationError rejects a request before any backend call is made.
type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: http.StatusBadRequest,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// GenerationError reports a failed call to the text generation backend.
// Message is safe to show to clients; the backend detail stays in Cause.
type GenerationError struct {
	*AppError
	Kind     string
	Provider string
}

func NewGenerationError(kind, provider, message string, cause error) *GenerationError {
	if kind == "" {
		kind = KindGenerationFailed
	}
	return &GenerationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeGeneration,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"kind":     kind,
				"provider": provider,
			},
			Cause: cause,
		},
		Kind:     kind,
		Provider: provider,
	}
}

// WithUpstreamStatus records the HTTP status reported by the backend.
func (e *GenerationError) WithUpstreamStatus(status int) *GenerationError {
	if status > 0 {
		e.Context["upstream_status"] = status
	}
	return e
}

func NewConfigError(message string, cause error) *AppError {
	return &AppError{
		Message:    message,
		Code:       CodeConfig,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StatusOf maps an error to the HTTP status it should be reported with.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.StatusCode
	}
	var g *GenerationError
	if stderrors.As(err, &g) {
		return g.StatusCode
	}
	var a *AppError
	if stderrors.As(err, &a) && a.StatusCode != 0 {
		return a.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-facing description of err without
// exposing wrapped backend errors.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.Message
	}
	var g *GenerationError
	if stderrors.As(err, &g) {
		return fmt.Sprintf("%s (%s)", g.Message, g.Kind)
	}
	return "internal server error"
}

// KindOf returns the generation error kind carried by err, if any.
func KindOf(err error) string {
	var g *GenerationError
	if stderrors.As(err, &g) {
		return g.Kind
	}
	return ""
}
