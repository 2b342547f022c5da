package token

import (
	"maps"
	"slices"
)

var keywords = map[string]TokenType{
	"CONST":     CONST,
	"VAR":       VAR,
	"PROCEDURE": PROCEDURE,
	"CALL":      CALL,
	"BEGIN":     BEGIN,
	"END":       END,
	"IF":        IF,
	"THEN":      THEN,
	"WHILE":     WHILE,
	"DO":        DO,
	"ODD":       ODD,
}

// Lookup returns the keyword type for word. Matching is exact and case-sensitive,
// so "begin" is not a keyword.
func Lookup(word string) (TokenType, bool) {
	t, ok := keywords[word]
	return t, ok
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}
