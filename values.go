package twiml

import (
	"fmt"
	"strings"
)

// Voice selects the text-to-speech voice of a Say verb. The value is the wire
// code written into the voice attribute. The zero value means "not set" and
// the attribute is omitted.
type Voice string

const (
	VoiceMan   Voice = "man"
	VoiceWoman Voice = "woman"
)

// ParseVoice maps a case-insensitive name to its Voice. It accepts the wire
// codes themselves ("man", "woman").
func ParseVoice(s string) (Voice, error) {
	switch strings.ToLower(s) {
	case "man":
		return VoiceMan, nil
	case "woman":
		return VoiceWoman, nil
	}
	return "", fmt.Errorf("%w: voice %q", ErrInvalidEnumValue, s)
}

func (v Voice) valid() bool {
	return v == VoiceMan || v == VoiceWoman
}

// String returns the wire code.
func (v Voice) String() string { return string(v) }

// Language selects the text-to-speech language of a Say verb. The value is
// the short wire code written into the lang attribute, not the spelled-out
// name. The zero value means "not set" and the attribute is omitted.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
)

// ParseLanguage maps a case-insensitive name to its Language. Both the
// spelled-out names ("english") and the wire codes ("en") are accepted.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "english", "en":
		return LanguageEnglish, nil
	case "spanish", "es":
		return LanguageSpanish, nil
	case "french", "fr":
		return LanguageFrench, nil
	case "german", "de":
		return LanguageGerman, nil
	}
	return "", fmt.Errorf("%w: language %q", ErrInvalidEnumValue, s)
}

func (l Language) valid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman:
		return true
	}
	return false
}

// String returns the wire code.
func (l Language) String() string { return string(l) }

// Int returns a pointer to v, for filling optional numeric params inline.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for filling optional boolean params inline.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for filling optional string params inline.
func String(v string) *string { return &v }

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func stringOr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}
