package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kapu/mendy-translator-go/internal/config"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "TRANSLATION:\nA\nCONTEXT:\nB\nRESPONSES:\nC"}
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (*OpenAIProvider, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	p := NewOpenAIProvider(config.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL + "/v1/",
	}, zap.NewNop())
	return p, &calls
}

func TestOpenAIGenerate(t *testing.T) {
	var gotPrompt string
	p, calls := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		gotPrompt = string(body)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	})

	result, err := p.Generate(context.Background(), "translate this please")
	require.NoError(t, err)

	assert.Equal(t, "TRANSLATION:\nA\nCONTEXT:\nB\nRESPONSES:\nC", result.Text)
	assert.Equal(t, "OpenAI", result.Provider)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Contains(t, gotPrompt, "translate this please")
	assert.NotContains(t, gotPrompt, "temperature")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGenerateAuthFailure(t *testing.T) {
	p, calls := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided: sk-test.","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`)
	})

	_, err := p.Generate(context.Background(), "hello")
	require.Error(t, err)

	var ge *apperrors.GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "OpenAI", ge.Provider)
	assert.NotEmpty(t, ge.Kind)
	assert.NotEqual(t, apperrors.KindGenerationFailed, ge.Kind)
	assert.Equal(t, "generation backend rejected the credential", ge.Message)
	assert.Equal(t, http.StatusUnauthorized, ge.Context["upstream_status"])
	assert.NotContains(t, apperrors.PublicMessage(err), "sk-test")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGenerateDoesNotRetryServerErrors(t *testing.T) {
	p, calls := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error","param":null,"code":null}}`)
	})

	_, err := p.Generate(context.Background(), "hello")
	require.Error(t, err)

	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
	assert.True(t, strings.HasPrefix(apperrors.PublicMessage(err), "generation backend is unavailable ("), apperrors.PublicMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	p, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`)
	})

	_, err := p.Generate(context.Background(), "hello")
	assert.Equal(t, apperrors.KindEmptyResponse, apperrors.KindOf(err))
}

func TestOpenAIGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOpenAIProvider(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url + "/v1/"}, zap.NewNop())

	_, err := p.Generate(context.Background(), "hello")
	assert.Equal(t, apperrors.KindBackendUnreachable, apperrors.KindOf(err))
}

func TestOpenAIMissingCredential(t *testing.T) {
	p := NewOpenAIProvider(config.OpenAIConfig{Model: "gpt-4o-mini"}, zap.NewNop())

	_, err := p.Generate(context.Background(), "hello")
	assert.Equal(t, apperrors.KindMissingCredential, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindMissingCredential, apperrors.KindOf(p.Ping(context.Background())))
}

func TestOpenAIPing(t *testing.T) {
	p, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gpt-4o-mini"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"gpt-4o-mini","object":"model","created":1700000000,"owned_by":"openai"}`)
	})

	assert.NoError(t, p.Ping(context.Background()))
}
