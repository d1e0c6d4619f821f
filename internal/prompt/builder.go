package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/kapu/mendy-translator-go/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

type TemplateName string

const (
	TemplateTranslate TemplateName = "translate.yaml"
	TemplateAdvice    TemplateName = "advice.yaml"
)

var allTemplates = []TemplateName{TemplateTranslate, TemplateAdvice}

type templateFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

// Vars are the values interpolated into every prompt template.
type Vars struct {
	Speaker    string
	TargetLang string
	Text       string
}

// PromptBuilder renders the embedded prompt templates. All templates are
// parsed up front, so a builder is read-only and safe for concurrent use.
type PromptBuilder struct {
	templates map[TemplateName]*template.Template
}

func NewPromptBuilder() (*PromptBuilder, error) {
	pb := &PromptBuilder{
		templates: make(map[TemplateName]*template.Template, len(allTemplates)),
	}
	for _, name := range allTemplates {
		tmpl, err := loadTemplate(name)
		if err != nil {
			return nil, err
		}
		pb.templates[name] = tmpl
	}
	return pb, nil
}

// MustPromptBuilder is NewPromptBuilder for callers that treat a broken
// embedded template as a programming error.
func MustPromptBuilder() *PromptBuilder {
	pb, err := NewPromptBuilder()
	if err != nil {
		panic(err)
	}
	return pb
}

// BuildTranslate renders the translation prompt for text in profile's language.
func (pb *PromptBuilder) BuildTranslate(text string, profile *domain.LanguageProfile) (string, error) {
	return pb.Render(TemplateTranslate, varsFor(text, profile))
}

// BuildAdvice renders the care-advice prompt for a symptom description.
func (pb *PromptBuilder) BuildAdvice(symptom string, profile *domain.LanguageProfile) (string, error) {
	return pb.Render(TemplateAdvice, varsFor(symptom, profile))
}

func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	tmpl, ok := pb.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

func varsFor(text string, profile *domain.LanguageProfile) Vars {
	if profile == nil {
		return Vars{Text: text}
	}
	return Vars{
		Speaker:    profile.Speaker,
		TargetLang: profile.TargetLang,
		Text:       text,
	}
}

func loadTemplate(name TemplateName) (*template.Template, error) {
	filename := filepath.ToSlash(filepath.Join("templates", string(name)))
	content, err := templateFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	var file templateFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("decode prompt template %s: %w", name, err)
	}
	if file.Prompt == "" {
		return nil, fmt.Errorf("prompt template %s is empty", name)
	}

	tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(file.Prompt)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}
	return tmpl, nil
}
