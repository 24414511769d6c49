package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
)

// Language shows or sets the interface language: lang [code].
func (a *App) Language(ctx context.Context, args []string) error {
	return a.languagePref(ctx, args, "Interface language:", a.prefs.UILanguage, a.prefs.SetUILanguage)
}

// OutputLanguage shows or sets the default analysis language: outlang [code].
func (a *App) OutputLanguage(ctx context.Context, args []string) error {
	return a.languagePref(ctx, args, "Output language:", a.prefs.OutputLanguage, a.prefs.SetOutputLanguage)
}

func (a *App) languagePref(ctx context.Context, args []string, label string,
	get func(context.Context) string, set func(context.Context, string) error) error {
	if len(args) == 0 {
		a.println(label, get(ctx))
		a.println("Supported:", strings.Join(storage.SupportedLanguages(), ", "))
		return nil
	}
	if err := set(ctx, strings.ToLower(args[0])); err != nil {
		return a.fail(ctx, "set language", err)
	}
	a.println(label, get(ctx))
	return nil
}

// Theme shows or sets the color theme: theme [name].
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Theme:", a.prefs.Theme(ctx))
		return nil
	}
	if err := a.prefs.SetTheme(ctx, storage.Theme(strings.ToLower(args[0]))); err != nil {
		return a.fail(ctx, "set theme", err)
	}
	a.println("Theme:", a.prefs.Theme(ctx))
	return nil
}
