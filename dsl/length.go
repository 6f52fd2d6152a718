// Package dsl parses the small textual notations accepted in labelgrid
// configuration: lengths such as "10.6cm" or "7pt" and page sizes such as
// "10.6cm x 2.1cm".
package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	lengthLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "Unit", Pattern: `mm|cm|in|pt`},
		{Name: "Times", Pattern: `[x*×]`},
	})

	lengthParser = participle.MustBuild[Length](
		participle.Lexer(lengthLexer),
		participle.Elide("Whitespace"),
	)
	sizeParser = participle.MustBuild[Size](
		participle.Lexer(lengthLexer),
		participle.Elide("Whitespace"),
	)
)

// Length is a number with an optional unit suffix.
// An empty Unit means the caller's default unit applies.
type Length struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value float64        `parser:"@Number"`
	Unit  string         `parser:"@Unit?"`
}

// Size is a "width x height" pair.
type Size struct {
	Width  Length `parser:"@@ Times"`
	Height Length `parser:"@@"`
}

// ParseLength parses a single length such as "2.1cm".
func ParseLength(input string) (*Length, error) {
	l, err := lengthParser.ParseString("", normalize(input))
	if err != nil {
		return nil, fmt.Errorf("invalid length %q: %w", input, err)
	}
	return l, nil
}

// ParseSize parses a page size such as "10.6cm x 2.1cm".
func ParseSize(input string) (*Size, error) {
	s, err := sizeParser.ParseString("", normalize(input))
	if err != nil {
		return nil, fmt.Errorf("invalid size %q: %w", input, err)
	}
	return s, nil
}

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
