// Package locale resolves user-facing text through translation catalogs.
package locale

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the language the built-in messages are written in.
const DefaultLanguage = "en"

// ErrNoLanguage is returned when no language code is configured.
var ErrNoLanguage = errors.New("language is not configured")

// Translator renders messages in the configured language.
type Translator struct {
	localizer *i18n.Localizer
	lang      string
}

// Identity returns a translator that renders the built-in English text.
func Identity() *Translator {
	bundle := i18n.NewBundle(language.English)
	return &Translator{
		localizer: i18n.NewLocalizer(bundle, DefaultLanguage),
		lang:      DefaultLanguage,
	}
}

// New loads the catalog for lang from dir (<dir>/<lang>.yaml).
//
// A translator is always returned. When lang is empty, cannot be parsed or
// its catalog cannot be loaded, the identity translator is returned together
// with the error; callers treat it as a warning.
func New(lang, dir string) (*Translator, error) {
	if lang == "" {
		return Identity(), ErrNoLanguage
	}
	if lang == DefaultLanguage {
		return Identity(), nil
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return Identity(), fmt.Errorf("parsing language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	path := filepath.Join(dir, lang+".yaml")
	if _, err := bundle.LoadMessageFile(path); err != nil {
		return Identity(), fmt.Errorf("loading catalog %s: %w", path, err)
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String(), DefaultLanguage),
		lang:      lang,
	}, nil
}

// Language returns the language code the translator renders.
func (t *Translator) Language() string {
	return t.lang
}

// T renders msg, substituting data into its template.
func (t *Translator) T(msg *i18n.Message, data map[string]any) string {
	out, err := t.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if out == "" && err != nil {
		return msg.Other
	}
	return out
}

// Answers holds the accepted tokens for a yes/no question.
type Answers struct {
	Yes []string
	No  []string
}

// Match classifies input as yes or no. ok is false for anything else.
func (a Answers) Match(input string) (yes, ok bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, y := range a.Yes {
		if input == y {
			return true, true
		}
	}
	for _, n := range a.No {
		if input == n {
			return false, true
		}
	}
	return false, false
}

// Answers returns the yes/no tokens accepted in the configured language.
// "y", "s" and "n" are always accepted.
func (t *Translator) Answers() Answers {
	return Answers{
		Yes: mergeTokens([]string{"y", "s"}, t.T(MsgYesAnswers, nil)),
		No:  mergeTokens([]string{"n"}, t.T(MsgNoAnswers, nil)),
	}
}

func mergeTokens(base []string, localized string) []string {
	tokens := append([]string{}, base...)
	for _, tok := range strings.Split(localized, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		dup := false
		for _, existing := range tokens {
			if existing == tok {
				dup = true
				break
			}
		}
		if !dup {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
