// Package phone normalizes phone numbers and matches them against the
// important contacts allow-list.
//
// Numbers reach the engine from the contact picker and from carrier caller ID,
// and only one side may carry the North American "+1" prefix. Matching is
// therefore exact or by suffix after removing at most one leading "+1" or "1".
package phone

import (
	"strings"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

// Normalize keeps ASCII digits and a single leading '+'. Any other rune,
// including a '+' after the first kept character, is dropped.
func Normalize(raw string) string {
	var b strings.Builder

	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	// A lone '+' carries no number.
	if b.Len() == 1 && b.String() == "+" {
		return ""
	}

	return b.String()
}

// StripCountryCode1 removes one leading "+1" or "1". Other prefixes are left alone.
func StripCountryCode1(number string) string {
	rest := strings.TrimPrefix(number, "+")
	if strings.HasPrefix(rest, "1") {
		return rest[1:]
	}

	return number
}

// Matches reports whether two normalized numbers denote the same line.
func Matches(incoming, stored string) bool {
	if incoming == "" || stored == "" {
		return false
	}

	if incoming == stored {
		return true
	}

	return hasNonEmptySuffix(incoming, StripCountryCode1(stored)) ||
		hasNonEmptySuffix(stored, StripCountryCode1(incoming))
}

// Match returns the first contact whose number matches incoming.
func Match(incoming string, contacts []alert.Contact) (alert.Contact, bool) {
	normalized := Normalize(incoming)
	if normalized == "" {
		return alert.Contact{}, false
	}

	for _, c := range contacts {
		if Matches(normalized, Normalize(c.RawNumber)) {
			return c, true
		}
	}

	return alert.Contact{}, false
}

// IsImportant reports whether incoming belongs to any allow-listed contact.
func IsImportant(incoming string, contacts []alert.Contact) bool {
	_, ok := Match(incoming, contacts)

	return ok
}

// hasNonEmptySuffix is strings.HasSuffix that refuses an empty suffix, which
// would otherwise match every number.
func hasNonEmptySuffix(s, suffix string) bool {
	return suffix != "" && strings.HasSuffix(s, suffix)
}
