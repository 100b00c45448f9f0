package entrytype

import "strings"

// DefaultXSSCharacters are rejected when no character set is configured.
const DefaultXSSCharacters = `<>&"'#%`

var defaultXSSChecker = NewXSSChecker("")

// XSSChecker rejects text containing any of a set of characters.
type XSSChecker struct {
	chars string
}

// NewXSSChecker returns a checker for chars, or for DefaultXSSCharacters
// when chars is empty.
func NewXSSChecker(chars string) *XSSChecker {
	if chars == "" {
		chars = DefaultXSSCharacters
	}
	return &XSSChecker{chars: chars}
}

// Contains reports whether s holds a forbidden character.
func (c *XSSChecker) Contains(s string) bool {
	return strings.ContainsAny(s, c.chars)
}
