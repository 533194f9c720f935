package mdc

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

type extension struct{}

// Extension wires the MDC dialect parsers into a goldmark instance. It adds
// parsers only; rendering the produced nodes is the portable-AST converter's
// job.
var Extension goldmark.Extender = &extension{}

func (e *extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewBlockComponentParser(), 799),
			util.Prioritized(NewSlotSeparatorParser(), 798),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewInlineComponentParser(), 150),
			util.Prioritized(NewTextSpanParser(), 151),
			util.Prioritized(NewCurlyParser(), 152),
		),
	)
}
