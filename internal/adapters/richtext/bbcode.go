// Package richtext renders BBCode answers to HTML.
package richtext

import (
	"github.com/frustra/bbcode"

	"github.com/example/genatt/internal/core/entrytype"
)

// BBCodeParser compiles BBCode with unmatched tags closed and stray closing
// tags dropped. Plain text is HTML-escaped.
type BBCodeParser struct {
	compiler bbcode.Compiler
}

// NewBBCodeParser returns a parser with the default tag set.
func NewBBCodeParser() *BBCodeParser {
	return &BBCodeParser{compiler: bbcode.NewCompiler(true, true)}
}

// Parse returns the HTML rendering of s.
func (p *BBCodeParser) Parse(s string) string {
	return p.compiler.Compile(s)
}

var _ entrytype.RichTextParser = (*BBCodeParser)(nil)
