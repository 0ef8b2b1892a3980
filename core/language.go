package core

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a normalized language code such as "en" or "en-US".
// The zero value means no language was declared.
type Language string

// NewLanguage normalizes a language code.
// Underscores are accepted as subtag separators ("pt_BR").
// Codes that golang.org/x/text recognises are canonicalized, anything else
// is kept lowercased so that unknown codes still compare consistently.
func NewLanguage(code string) Language {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return Language(strings.ToLower(code))
	}
	return Language(tag.String())
}

// String returns the language code.
func (l Language) String() string {
	return string(l)
}

// IsZero reports whether no language was declared.
func (l Language) IsZero() bool {
	return l == ""
}

// Base returns the primary language subtag, e.g. "en" for "en-US".
func (l Language) Base() string {
	s := string(l)
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// SameBase reports whether both languages share a primary subtag.
func (l Language) SameBase(other Language) bool {
	return !l.IsZero() && !other.IsZero() && l.Base() == other.Base()
}

// Equal compares full language codes, ignoring case.
func (l Language) Equal(other Language) bool {
	return strings.EqualFold(string(l), string(other))
}

// MatchKind classifies how a candidate's declared language relates to the
// requested language.
type MatchKind int

const (
	// MatchExact means the full codes are equal.
	MatchExact MatchKind = iota + 1
	// MatchBase means the primary subtags are equal but region or script differ.
	MatchBase
	// MatchForeign means the primary subtags differ.
	MatchForeign
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchBase:
		return "base"
	case MatchForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Specificity ranks match kinds; higher is more specific.
func (k MatchKind) Specificity() int {
	switch k {
	case MatchExact:
		return 3
	case MatchBase:
		return 2
	case MatchForeign:
		return 1
	default:
		return 0
	}
}

// ClassifyLanguage classifies declared against requested.
// An undeclared language on either side cannot contradict the other and
// is treated as exact.
func ClassifyLanguage(declared, requested Language) MatchKind {
	switch {
	case declared.IsZero() || requested.IsZero():
		return MatchExact
	case declared.Equal(requested):
		return MatchExact
	case declared.SameBase(requested):
		return MatchBase
	default:
		return MatchForeign
	}
}
