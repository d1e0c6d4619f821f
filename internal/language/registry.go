// Package language loads the language profiles and resolves the language
// identifiers sent by clients.
package language

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kapu/mendy-translator-go/internal/domain"
	"github.com/kapu/mendy-translator-go/internal/util"
	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var builtinProfiles []byte

type profileFile struct {
	Default  string                   `yaml:"default"`
	Profiles []domain.LanguageProfile `yaml:"profiles"`
}

// Registry is an immutable set of language profiles with a default.
type Registry struct {
	byID     map[string]*domain.LanguageProfile
	ordered  []*domain.LanguageProfile
	fallback *domain.LanguageProfile
	matcher  language.Matcher
	tagged   []*domain.LanguageProfile
}

// LoadRegistry reads profiles from path, or the built-in set when path is
// empty. defaultID overrides the file's default when non-empty. An
// unreadable or invalid file is reported as a config error.
func LoadRegistry(path, defaultID string) (*Registry, error) {
	data := builtinProfiles
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("read language profiles %s", path), err)
		}
		data = content
	}
	return ParseRegistry(data, defaultID)
}

// ParseRegistry builds a registry from a YAML profiles document.
func ParseRegistry(data []byte, defaultID string) (*Registry, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewConfigError("parse language profiles", err)
	}
	if defaultID == "" {
		defaultID = file.Default
	}
	r, err := NewRegistry(file.Profiles, defaultID)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid language profiles", err)
	}
	return r, nil
}

// NewRegistry validates profiles and indexes them by ID.
func NewRegistry(profiles []domain.LanguageProfile, defaultID string) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one language profile is required")
	}

	r := &Registry{
		byID:    make(map[string]*domain.LanguageProfile, len(profiles)),
		ordered: make([]*domain.LanguageProfile, 0, len(profiles)),
	}

	var tags []language.Tag
	for i := range profiles {
		p := profiles[i]
		p.ID = util.Normalize(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("language profile #%d has no id", i+1)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate language profile %q", p.ID)
		}
		if strings.TrimSpace(p.TargetLang) == "" || strings.TrimSpace(p.Speaker) == "" {
			return nil, fmt.Errorf("language profile %q needs target_lang and speaker", p.ID)
		}
		if p.Tag != "" {
			tag, err := language.Parse(p.Tag)
			if err != nil {
				return nil, fmt.Errorf("language profile %q has invalid tag %q: %w", p.ID, p.Tag, err)
			}
			tags = append(tags, tag)
			r.tagged = append(r.tagged, &p)
		}
		r.byID[p.ID] = &p
		r.ordered = append(r.ordered, &p)
	}

	defaultID = util.Normalize(defaultID)
	if defaultID == "" {
		defaultID = r.ordered[0].ID
	}
	fallback, ok := r.byID[defaultID]
	if !ok {
		return nil, fmt.Errorf("default language %q is not a configured profile", defaultID)
	}
	r.fallback = fallback

	if len(tags) > 0 {
		r.matcher = language.NewMatcher(tags)
	}
	return r, nil
}

// Lookup resolves id by profile ID, then by BCP 47 tag. Anything else
// resolves to the default profile and ok is false.
func (r *Registry) Lookup(id string) (*domain.LanguageProfile, bool) {
	key := util.Normalize(id)
	if key == "" {
		return r.fallback, false
	}
	if p, found := r.byID[key]; found {
		return p, true
	}
	if p := r.matchTag(key); p != nil {
		return p, true
	}
	return r.fallback, false
}

func (r *Registry) matchTag(value string) *domain.LanguageProfile {
	if r.matcher == nil {
		return nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return nil
	}
	_, index, confidence := r.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(r.tagged) {
		return nil
	}
	return r.tagged[index]
}

// Default returns the fallback profile.
func (r *Registry) Default() *domain.LanguageProfile {
	return r.fallback
}

// List returns the profiles in definition order.
func (r *Registry) List() []*domain.LanguageProfile {
	out := make([]*domain.LanguageProfile, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// IDs returns the profile identifiers in definition order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ordered))
	for i, p := range r.ordered {
		ids[i] = p.ID
	}
	return ids
}
