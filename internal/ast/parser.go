package ast

import (
	"fmt"
	"strings"
)

// Parse parses flattened While-language program text (spec.md §4.1) into
// an AST, using a fresh Builder so identifiers are assigned deterministically
// starting from zero (spec.md §3.2).
func Parse(text string) (*Node, error) {
	b := NewBuilder()
	return ParseWith(b, text)
}

// ParseWith parses text using the given Builder, so callers that need to
// continue allocating IDs from an existing counter (as opposed to the
// per-build reset of Parse) can share one.
func ParseWith(b *Builder, text string) (*Node, error) {
	stripped := stripWhitespace(text)

	tree, err := whileParser.ParseString("", stripped)
	if err != nil {
		return nil, ParseError{Kind: "MalformedInput", Message: fmt.Sprintf("%v", err)}
	}

	return convertGrammar(b, tree)
}

// stripWhitespace removes all whitespace, matching §6.1's "whitespace ...
// is insignificant and is stripped before parsing". The lexer itself
// elides whitespace between tokens, but stripping up front also matches
// the canonical header/body substring extraction of §4.1 and keeps
// identifiers from accidentally containing embedded space.
func stripWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
