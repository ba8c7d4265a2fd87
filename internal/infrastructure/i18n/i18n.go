// Package i18n translates user-facing messages. Message formats double
// as catalogue keys: an English format without a translation is printed
// as is.
package i18n

import (
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator picks a supported language from Accept-Language headers and
// renders messages in it.
type Translator struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// New returns a translator supporting English and French. fallback is
// used when a request names no supported language; an unknown fallback
// means English.
func New(fallback string) *Translator {
	def := language.English
	if tag, err := language.Parse(fallback); err == nil {
		if base, _ := tag.Base(); base.String() == "fr" {
			def = language.French
		}
	}
	supported := []language.Tag{def}
	if def == language.English {
		supported = append(supported, language.French)
	} else {
		supported = append(supported, language.English)
	}

	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, fr := range french {
		// SetString only fails on malformed keys, which the table never holds.
		_ = cat.SetString(language.French, key, fr)
	}
	return &Translator{
		cat:       cat,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Match returns the supported language that best fits an Accept-Language
// header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.supported[0]
	}
	_, idx, _ := t.matcher.Match(tags...)
	return t.supported[idx]
}

// Sprintf renders format with args in tag.
func (t *Translator) Sprintf(tag language.Tag, format string, args ...any) string {
	return message.NewPrinter(tag, message.Catalog(t.cat)).Sprintf(format, args...)
}

// Text translates msg without treating it as a format, so a '%' in it is
// printed as is.
func (t *Translator) Text(tag language.Tag, msg string) string {
	return message.NewPrinter(tag, message.Catalog(t.cat)).Sprintf(strings.ReplaceAll(msg, "%", "%%"))
}

// Violation renders a validation violation in tag.
func (t *Translator) Violation(tag language.Tag, v shared.Violation) string {
	return t.Sprintf(tag, v.Format, v.Args...)
}
