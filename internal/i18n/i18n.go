// Package i18n maps English source strings to localized display strings.
// A key with no translation is shown as-is.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// DefaultLanguage is the language of the source strings.
const DefaultLanguage = "en_US"

// Language is a selectable UI language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var languages = []Language{
	{"en_US", "English"},
	{"zh_CN", "简体中文"},
	{"es_ES", "Español"},
	{"fr_FR", "Français"},
	{"de_DE", "Deutsch"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(languages))
	for i, l := range languages {
		tags[i] = language.MustParse(strings.ReplaceAll(l.Code, "_", "-"))
	}
	return language.NewMatcher(tags)
}()

// Languages lists the supported languages, English first.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// Match maps a locale string such as "zh_CN", "de", "fr-CA" or "pt-BR" to
// the closest supported language code, or DefaultLanguage if nothing fits.
func Match(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLanguage
	}
	// Windows/POSIX style suffixes: "de_DE.UTF-8", "zh_CN@stroke".
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return languages[idx].Code
}

// Translator looks up localized strings for one language.
type Translator struct {
	lang  string
	table map[string]string
}

// Identity returns a Translator that shows every key unchanged.
func Identity() *Translator {
	return &Translator{lang: DefaultLanguage, table: map[string]string{}}
}

// Load builds the Translator for locale. A table file in overrideDir wins over
// the embedded one. A missing table is not an error: every lookup falls back
// to the key. A malformed table is reported, and the returned Translator
// still works as Identity for that language.
func Load(locale, overrideDir string) (*Translator, error) {
	code := Match(locale)
	t := &Translator{lang: code, table: map[string]string{}}

	data, err := readTable(code, overrideDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return t, fmt.Errorf("failed to read %s translations: %w", code, err)
	}

	table := map[string]string{}
	if err := json.Unmarshal(data, &table); err != nil {
		return t, fmt.Errorf("failed to parse %s translations: %w", code, err)
	}
	t.table = table
	return t, nil
}

func readTable(code, overrideDir string) ([]byte, error) {
	name := code + ".json"
	if overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(overrideDir, name))
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return data, err
		}
	}
	return embedded.ReadFile("locales/" + name)
}

// Language is the resolved language code.
func (t *Translator) Language() string {
	return t.lang
}

// T returns the translation for key, or key itself.
func (t *Translator) T(key string) string {
	if t == nil {
		return key
	}
	if s, ok := t.table[key]; ok && s != "" {
		return s
	}
	return key
}

// Tf translates a fmt pattern and applies args to it.
func (t *Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

// Size is the number of translated keys.
func (t *Translator) Size() int {
	return len(t.table)
}
