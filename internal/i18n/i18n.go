// Package i18n resolves locales and translates dotted message keys.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/motis10/muninet/internal/i18n/catalog"
)

var supportedTags = []language.Tag{
	language.Hebrew,          // he
	language.AmericanEnglish, // en-US
	language.French,          // fr
	language.Russian,         // ru
}

var matcher = language.NewMatcher(supportedTags)

// SupportedTags returns the supported language tags. Hebrew leads because it
// is the service default.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return language.Hebrew
}

// ParseTag parses a locale value against the supported set.
func ParseTag(value string) (language.Tag, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return language.Tag{}, false
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return language.Tag{}, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supportedTags[index], true
}

// MatchTags picks the best supported tag for an Accept-Language preference
// list, falling back to the default.
func MatchTags(preferred []language.Tag) language.Tag {
	if len(preferred) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(preferred...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// LocaleKey maps a supported tag to its catalog locale identifier.
func LocaleKey(tag language.Tag) string {
	if tag == language.AmericanEnglish {
		return catalog.BaseLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// Translator renders dotted-key messages for a locale.
type Translator struct {
	bundle *catalog.Bundle
}

// NewTranslator returns a translator over the provided bundle.
func NewTranslator(bundle *catalog.Bundle) Translator {
	return Translator{bundle: bundle}
}

// Default returns a translator over the process-wide catalog bundle.
func Default() Translator {
	return Translator{bundle: catalog.Default()}
}

// T resolves key for the locale with base-locale fallback. Unresolvable keys
// return the literal key so missing translations stay visible instead of
// failing the request. Args interpolate {name} placeholders.
func (t Translator) T(tag language.Tag, key string, args map[string]any) string {
	value, ok := t.bundle.Message(LocaleKey(tag), key)
	if !ok {
		value = key
	}
	return interpolate(value, args)
}

func interpolate(value string, args map[string]any) string {
	if len(args) == 0 {
		return value
	}
	for name, arg := range args {
		value = strings.ReplaceAll(value, "{"+name+"}", fmt.Sprint(arg))
	}
	return value
}
