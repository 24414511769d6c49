package storage

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/meetscribe/internal/common"
)

// Defaults returned when a preference is missing or invalid.
const (
	DefaultUILanguage     = "en"
	DefaultOutputLanguage = "en"
	DefaultTheme          = ThemeLight
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var supportedLanguages = []string{"de", "en", "es", "fr", "it", "ja", "lv", "nl", "pl", "pt", "ru", "uk", "zh"}

var supportedThemes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// SupportedLanguages lists the language codes accepted for UI and output.
func SupportedLanguages() []string {
	return slices.Clone(supportedLanguages)
}

// IsSupportedLanguage reports whether code is an accepted language code.
func IsSupportedLanguage(code string) bool {
	return slices.Contains(supportedLanguages, code)
}

// Preferences are typed accessors for the UI settings in the store.
type Preferences struct {
	store *Store
}

func NewPreferences(store *Store) *Preferences {
	return &Preferences{store: store}
}

func (p *Preferences) UILanguage(ctx context.Context) string {
	return p.language(ctx, KeyUILanguage, DefaultUILanguage)
}

func (p *Preferences) SetUILanguage(ctx context.Context, code string) error {
	return p.setLanguage(ctx, KeyUILanguage, "uiLanguage", code)
}

// OutputLanguage is the default language requested for analyses.
func (p *Preferences) OutputLanguage(ctx context.Context) string {
	return p.language(ctx, KeyOutputLanguage, DefaultOutputLanguage)
}

func (p *Preferences) SetOutputLanguage(ctx context.Context, code string) error {
	return p.setLanguage(ctx, KeyOutputLanguage, "outputLanguage", code)
}

func (p *Preferences) Theme(ctx context.Context) Theme {
	v, ok := p.store.Get(ctx, KeyTheme)
	if !ok || !slices.Contains(supportedThemes, Theme(v)) {
		return DefaultTheme
	}
	return Theme(v)
}

func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	t = Theme(strings.ToLower(strings.TrimSpace(string(t))))
	if !slices.Contains(supportedThemes, t) {
		return common.NewValidationError("theme", "must be one of light, dark, system")
	}
	p.store.Set(ctx, KeyTheme, string(t))
	return nil
}

func (p *Preferences) language(ctx context.Context, key, def string) string {
	v, ok := p.store.Get(ctx, key)
	if !ok || !IsSupportedLanguage(v) {
		return def
	}
	return v
}

func (p *Preferences) setLanguage(ctx context.Context, key, field, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !IsSupportedLanguage(code) {
		return common.NewValidationError(field, "unsupported language; use one of "+strings.Join(supportedLanguages, ", "))
	}
	p.store.Set(ctx, key, code)
	return nil
}
