package assist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kapu/mendy-translator-go/internal/domain"
	"github.com/kapu/mendy-translator-go/internal/language"
	"github.com/kapu/mendy-translator-go/internal/prompt"
	"github.com/kapu/mendy-translator-go/internal/service/ai"
	"github.com/kapu/mendy-translator-go/internal/util"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeGenerator records prompts and answers with reply, or with the result
// of respond when set.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Name() string  { return "Fake" }
func (f *fakeGenerator) Model() string { return "fake-1" }

func (f *fakeGenerator) Generate(_ context.Context, p string) (ai.Result, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()

	text, err := f.reply, f.err
	if f.respond != nil {
		text, err = f.respond(p)
	}
	if err != nil {
		return ai.Result{}, err
	}
	return ai.Result{Text: text, Provider: "Fake", Model: "fake-1"}, nil
}

func (f *fakeGenerator) Ping(context.Context) error { return nil }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestService(t *testing.T, gen ai.Generator, logger *zap.Logger) *Service {
	t.Helper()
	registry, err := language.LoadRegistry("", "")
	require.NoError(t, err)

	svc, err := NewService(gen, prompt.MustPromptBuilder(), registry, logger)
	require.NoError(t, err)
	return svc
}

func TestTranslateParsesSections(t *testing.T) {
	gen := &fakeGenerator{reply: "TRANSLATION:\nA\nCONTEXT:\nB\nRESPONSES:\nC"}
	svc := newTestService(t, gen, nil)

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "Please sit down", Language: "urdu"})
	require.NoError(t, err)

	assert.Equal(t, domain.ParsedTranslation{Translation: "A", Context: "B", Responses: "C"}, got.ParsedTranslation)
	assert.Equal(t, "urdu", got.Language)
	assert.Equal(t, domain.OutcomeParsed, got.Outcome)
	assert.Equal(t, "Fake", got.Provider)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "Urdu-speaking patients")
	assert.Contains(t, gen.prompts[0], `"Please sit down"`)
}

func TestTranslateDegradedReply(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gen := &fakeGenerator{reply: "I could not follow the format, sorry."}
	svc := newTestService(t, gen, zap.New(core))

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "hello"})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeDegraded, got.Outcome)
	assert.Equal(t, "I could not follow the format, sorry.", got.Translation)
	assert.Equal(t, "Raw response (parsing failed)", got.Context)
	assert.Equal(t, "See translation above", got.Responses)

	entries := logs.FilterMessage("Translation reply did not match section layout").All()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.MarkerTranslation, entries[0].ContextMap()["missing_marker"])
}

func TestTranslateRejectsEmptyTextWithoutCallingBackend(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	svc := newTestService(t, gen, nil)

	_, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "", Language: "twi"})

	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "No text provided", ve.Message)
	assert.Equal(t, "text", ve.Field)
	assert.Zero(t, gen.calls())
}

func TestTranslateAcceptsWhitespaceText(t *testing.T) {
	gen := &fakeGenerator{reply: "TRANSLATION: a CONTEXT: b RESPONSES: c"}
	svc := newTestService(t, gen, nil)

	_, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gen := &fakeGenerator{reply: "TRANSLATION:\nA\nCONTEXT:\nB\nRESPONSES:\nC"}
	svc := newTestService(t, gen, zap.New(core))

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "hello", Language: "klingon"})
	require.NoError(t, err)

	assert.Equal(t, "chinese", got.Language)
	assert.Contains(t, gen.prompts[0], "Chinese-speaking patients")
	assert.Equal(t, 1, logs.FilterMessage("Unknown language, using default").Len())
}

func TestTranslateGenerationErrorPropagates(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	backendErr := apperrors.NewGenerationError("permission-denied", "Fake", "generation backend rejected the credential", errors.New("API key not valid"))
	gen := &fakeGenerator{err: backendErr}
	svc := newTestService(t, gen, zap.New(core))

	ctx := util.WithRequestID(context.Background(), "req-42")
	_, err := svc.Translate(ctx, domain.TranslationRequest{Text: "hello", Language: "twi"})

	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, "permission-denied", apperrors.KindOf(err))
	assert.Equal(t, 1, gen.calls())

	entries := logs.FilterMessage("Generation failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "twi", fields["language"])
	assert.Equal(t, "permission-denied", fields["kind"])
}

func TestAdvisePassesReplyThrough(t *testing.T) {
	reply := "**1. Department**\nVisit the emergency department.\n"
	gen := &fakeGenerator{reply: reply}
	svc := newTestService(t, gen, nil)

	got, err := svc.Advise(context.Background(), domain.AdviceRequest{Symptom: "chest pain", Language: "twi"})
	require.NoError(t, err)

	assert.Equal(t, reply, got.Advice)
	assert.Equal(t, "twi", got.Language)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], `The patient says: "chest pain"`)
	assert.Contains(t, gen.prompts[0], "Provide advice in Twi (Akan language from Ghana) about:")
}

func TestAdviseRejectsEmptySymptom(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	svc := newTestService(t, gen, nil)

	_, err := svc.Advise(context.Background(), domain.AdviceRequest{})

	assert.Equal(t, "No symptom provided", apperrors.PublicMessage(err))
	assert.Equal(t, 400, apperrors.StatusOf(err))
	assert.Zero(t, gen.calls())
}

func TestConcurrentRequestsDoNotShareState(t *testing.T) {
	gen := &fakeGenerator{respond: func(p string) (string, error) {
		for _, lang := range []string{"Chinese", "Urdu", "Twi"} {
			if strings.Contains(p, "helping "+lang+"-speaking") {
				return "TRANSLATION: " + lang + " CONTEXT: c RESPONSES: r", nil
			}
		}
		return "", errors.New("unexpected prompt")
	}}
	svc := newTestService(t, gen, nil)

	langs := map[string]string{"chinese": "Chinese", "urdu": "Urdu", "twi": "Twi"}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		for id, want := range langs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := svc.Translate(context.Background(), domain.TranslationRequest{Text: "hi", Language: id})
				if assert.NoError(t, err) {
					assert.Equal(t, want, got.Translation)
					assert.Equal(t, id, got.Language)
				}
			}()
		}
	}
	wg.Wait()

	assert.Equal(t, 90, gen.calls())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	registry, err := language.LoadRegistry("", "")
	require.NoError(t, err)
	pb := prompt.MustPromptBuilder()

	_, err = NewService(nil, pb, registry, nil)
	assert.Error(t, err)
	_, err = NewService(&fakeGenerator{}, nil, registry, nil)
	assert.Error(t, err)
	_, err = NewService(&fakeGenerator{}, pb, nil, nil)
	assert.Error(t, err)
}
