// Package i18n localises the chrome strings of rendered pages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// DefaultLanguage is used when no language is configured and as the fallback
// for messages missing from a translation.
const DefaultLanguage = "en"

// Translations resolves message IDs for one language.
type Translations struct {
	lang      string
	localizer *i18n.Localizer
	fallback  *i18n.Localizer
}

// New loads the embedded bundles and returns translations for lang.
func New(lang string) (*Translations, error) {
	if lang == "" {
		lang = DefaultLanguage
	}

	bundle, err := loadBundle()
	if err != nil {
		return nil, err
	}

	if !supported(bundle, lang) {
		return nil, fmt.Errorf("i18n: language %q not supported (available: %v)", lang, Languages())
	}

	return &Translations{
		lang:      lang,
		localizer: i18n.NewLocalizer(bundle, lang),
		fallback:  i18n.NewLocalizer(bundle, DefaultLanguage),
	}, nil
}

// MustNew is like New but panics on error. Intended for DefaultLanguage.
func MustNew(lang string) *Translations {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Language returns the configured language tag.
func (t *Translations) Language() string {
	return t.lang
}

// Message returns the localised message for id. When neither the configured
// language nor the default has it, id itself is returned.
func (t *Translations) Message(id string, data map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id, TemplateData: data}
	if msg, err := t.localizer.Localize(cfg); err == nil {
		return msg
	}
	if msg, err := t.fallback.Localize(cfg); err == nil {
		return msg
	}
	return id
}

// Languages lists the embedded languages, sorted.
func Languages() []string {
	entries, err := fs.Glob(locales, "locales/active.*.toml")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimPrefix(path.Base(e), "active.")
		out = append(out, strings.TrimSuffix(name, ".toml"))
	}
	sort.Strings(out)
	return out
}

func loadBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("i18n: list locales: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", file, err)
		}
	}
	return bundle, nil
}

func supported(bundle *i18n.Bundle, lang string) bool {
	want, err := language.Parse(lang)
	if err != nil {
		return false
	}
	for _, tag := range bundle.LanguageTags() {
		if tag == want {
			return true
		}
	}
	return false
}
