// Package normalize canonicalises user-entered strings before they are
// validated, compared, or stored.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of
// whitespace to single spaces. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameCI returns the case- and diacritic-folded form of a name used for
// the *_ci sort and search fields.
func NameCI(s string) string {
	return text.Fold(Name(s))
}

// Text trims surrounding whitespace only.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// OptionalText trims s and returns nil when the result is empty.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
