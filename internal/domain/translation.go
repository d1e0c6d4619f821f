package domain

// Section markers the translate prompt asks the model to emit, in order.
const (
	MarkerTranslation = "TRANSLATION:"
	MarkerContext     = "CONTEXT:"
	MarkerResponses   = "RESPONSES:"
)

// Placeholder values returned when a reply does not follow the marker layout.
const (
	DegradedContext   = "Raw response (parsing failed)"
	DegradedResponses = "See translation above"
)

type TranslationRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type AdviceRequest struct {
	Symptom  string `json:"symptom"`
	Language string `json:"language,omitempty"`
}

type ParsedTranslation struct {
	Translation string `json:"translation"`
	Context     string `json:"context"`
	Responses   string `json:"responses"`
}

type ParsedAdvice struct {
	Advice string `json:"advice"`
}

// ParseOutcome tags whether a reply matched the marker layout.
type ParseOutcome string

const (
	OutcomeParsed   ParseOutcome = "parsed"
	OutcomeDegraded ParseOutcome = "degraded"
)

func (o ParseOutcome) String() string {
	return string(o)
}

// TranslationParse is the result of splitting a translate reply. Missing
// names the first marker that was not found when Outcome is degraded.
type TranslationParse struct {
	Translation ParsedTranslation
	Outcome     ParseOutcome
	Missing     string
}

// Degraded reports whether the reply fell back to the raw text shape.
func (p TranslationParse) Degraded() bool {
	return p.Outcome == OutcomeDegraded
}

// TranslationResult is a completed translation with the metadata of the
// generation call that produced it.
type TranslationResult struct {
	ParsedTranslation
	Language string
	Outcome  ParseOutcome
	Provider string
	Model    string
}

// AdviceResult is a completed advice request.
type AdviceResult struct {
	ParsedAdvice
	Language string
	Provider string
	Model    string
}
