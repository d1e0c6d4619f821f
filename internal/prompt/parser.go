package prompt

import (
	"strings"

	"github.com/kapu/mendy-translator-go/internal/domain"
)

// ParseTranslation splits a translate reply on the TRANSLATION:, CONTEXT:
// and RESPONSES: markers, taking the first occurrence of each in turn.
// When any marker is missing the raw reply is returned untouched in the
// translation field and the other two fields carry fixed placeholders.
func ParseTranslation(raw string) domain.TranslationParse {
	_, afterTranslation, found := strings.Cut(raw, domain.MarkerTranslation)
	if !found {
		return degraded(raw, domain.MarkerTranslation)
	}

	translation, afterContext, found := strings.Cut(afterTranslation, domain.MarkerContext)
	if !found {
		return degraded(raw, domain.MarkerContext)
	}

	context, responses, found := strings.Cut(afterContext, domain.MarkerResponses)
	if !found {
		return degraded(raw, domain.MarkerResponses)
	}

	return domain.TranslationParse{
		Translation: domain.ParsedTranslation{
			Translation: strings.TrimSpace(translation),
			Context:     strings.TrimSpace(context),
			Responses:   strings.TrimSpace(responses),
		},
		Outcome: domain.OutcomeParsed,
	}
}

// ParseAdvice passes the advice reply through unchanged.
func ParseAdvice(raw string) domain.ParsedAdvice {
	return domain.ParsedAdvice{Advice: raw}
}

func degraded(raw, missing string) domain.TranslationParse {
	return domain.TranslationParse{
		Translation: domain.ParsedTranslation{
			Translation: raw,
			Context:     domain.DegradedContext,
			Responses:   domain.DegradedResponses,
		},
		Outcome: domain.OutcomeDegraded,
		Missing: missing,
	}
}
