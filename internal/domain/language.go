package domain

// LanguageProfile holds the per-language strings used to build prompts and
// label the web pages. Profiles are created at startup and never modified.
type LanguageProfile struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	EnglishName string    `json:"english_name" yaml:"english_name"`
	Tag         string    `json:"tag,omitempty" yaml:"tag"`
	TargetLang  string    `json:"-" yaml:"target_lang"`
	Speaker     string    `json:"-" yaml:"speaker"`
	UI          UIStrings `json:"ui" yaml:"ui"`
}

// UIStrings are presentation-only labels for the realtime and preparation pages.
type UIStrings struct {
	RealtimeTitle      string `json:"realtime_title" yaml:"realtime_title"`
	PreparationTitle   string `json:"preparation_title" yaml:"preparation_title"`
	InputPlaceholder   string `json:"input_placeholder" yaml:"input_placeholder"`
	SymptomPlaceholder string `json:"symptom_placeholder" yaml:"symptom_placeholder"`
	TranslateButton    string `json:"translate_btn" yaml:"translate_btn"`
	AdviceButton       string `json:"advice_btn" yaml:"advice_btn"`
	BackButton         string `json:"back_btn" yaml:"back_btn"`
	Translating        string `json:"translating" yaml:"translating"`
	Analyzing          string `json:"analyzing" yaml:"analyzing"`
}

// LanguageSelector resolves a client-supplied language identifier to a
// profile. Unknown identifiers resolve to the default profile.
type LanguageSelector interface {
	Lookup(id string) (*LanguageProfile, bool)
	Default() *LanguageProfile
}
