package assist

import (
	"context"
	"sort"

	"github.com/kapu/mendy-translator-go/internal/domain"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

const defaultBatchConcurrency = 3

// LanguageTranslation is one entry of a multi-language translation.
type LanguageTranslation struct {
	Language string
	Result   *domain.TranslationResult
	Err      error
}

// TranslateAll translates text into each language independently and
// concurrently. Results keep the order of languages; a failure for one
// language does not affect the others.
func (s *Service) TranslateAll(ctx context.Context, text string, languages []string, maxConcurrent int) ([]LanguageTranslation, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("No text provided", "text", text)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultBatchConcurrency
	}

	type indexed struct {
		index int
		LanguageTranslation
	}

	p := pool.NewWithResults[indexed]().WithMaxGoroutines(maxConcurrent)
	for i, lang := range languages {
		p.Go(func() indexed {
			result, err := s.Translate(ctx, domain.TranslationRequest{Text: text, Language: lang})
			return indexed{
				index: i,
				LanguageTranslation: LanguageTranslation{
					Language: lang,
					Result:   result,
					Err:      err,
				},
			}
		})
	}

	collected := p.Wait()
	sort.Slice(collected, func(a, b int) bool { return collected[a].index < collected[b].index })

	out := make([]LanguageTranslation, len(collected))
	for i, item := range collected {
		out[i] = item.LanguageTranslation
	}
	return out, nil
}
