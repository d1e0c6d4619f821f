package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kapu/mendy-translator-go/internal/domain"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// Assistant is the application service behind the API endpoints.
type Assistant interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error)
	Advise(ctx context.Context, req domain.AdviceRequest) (*domain.AdviceResult, error)
}

// LanguageCatalog lists the configured language profiles.
type LanguageCatalog interface {
	List() []*domain.LanguageProfile
	Default() *domain.LanguageProfile
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type languagesResponse struct {
	Default   string                    `json:"default"`
	Languages []*domain.LanguageProfile `json:"languages"`
}

type apiHandler struct {
	assistant Assistant
	languages LanguageCatalog
	logger    *zap.Logger
}

func (h *apiHandler) translate(w http.ResponseWriter, r *http.Request) {
	var req domain.TranslationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.assistant.Translate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.ParsedTranslation)
}

func (h *apiHandler) advice(w http.ResponseWriter, r *http.Request) {
	var req domain.AdviceRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.assistant.Advise(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.ParsedAdvice)
}

func (h *apiHandler) listLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Default:   h.languages.Default().ID,
		Languages: h.languages.List(),
	})
}

// decode reads a JSON body. An empty body decodes to the zero request so
// the service reports the missing field.
func (h *apiHandler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
	return false
}

func (h *apiHandler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)
	// Generation failures are already logged with their backend detail.
	if status >= http.StatusInternalServerError && apperrors.KindOf(err) == "" {
		h.logger.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{
		Error: apperrors.PublicMessage(err),
		Kind:  apperrors.KindOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
