package mdc

import (
	"regexp"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	openFencePattern = regexp.MustCompile(`^(:{2,})([A-Za-z][A-Za-z0-9_-]*)(\{.*\})?\s*$`)
	slotPattern      = regexp.MustCompile(`^#([A-Za-z][A-Za-z0-9_-]*)\s*$`)
)

// blockComponentParser opens colon-fenced component containers. Nested
// components indent their fences with an extra colon per level; a closing
// fence repeats the opening colon count. Components left open at end of
// input close implicitly.
type blockComponentParser struct{}

// NewBlockComponentParser returns the block parser for `::name` fences.
func NewBlockComponentParser() parser.BlockParser {
	return &blockComponentParser{}
}

func (p *blockComponentParser) Trigger() []byte {
	return []byte{':'}
}

func (p *blockComponentParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := util.TrimLeftSpaceLength(line)
	if pos > 3 {
		return nil, parser.NoChildren
	}

	match := openFencePattern.FindSubmatch(line[pos:])
	if match == nil {
		return nil, parser.NoChildren
	}

	fence := len(match[1])
	name := string(match[2])

	attrs := map[string]any{}
	if len(match[3]) > 0 {
		raw := strings.TrimSpace(string(match[3]))
		parsed, ok := ParseAttributes(raw[1 : len(raw)-1])
		if !ok {
			return nil, parser.NoChildren
		}
		attrs = parsed
	}

	reader.Advance(segment.Len() - 1)
	return NewBlockComponent(name, fence, attrs), parser.HasChildren
}

func (p *blockComponentParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	component, ok := node.(*BlockComponent)
	if !ok {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	pos := util.TrimLeftSpaceLength(line)
	if pos > 3 {
		return parser.Continue | parser.HasChildren
	}

	if isCloseFence(line[pos:], component.Fence) {
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *blockComponentParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
}

func (p *blockComponentParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockComponentParser) CanAcceptIndentedLine() bool {
	return false
}

// isCloseFence matches a line holding exactly fence colons and trailing
// whitespace.
func isCloseFence(line []byte, fence int) bool {
	count := 0
	i := 0
	for ; i < len(line) && line[i] == ':'; i++ {
		count++
	}
	if count != fence {
		return false
	}
	for ; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' && line[i] != '\n' && line[i] != '\r' {
			return false
		}
	}
	return true
}

// slotSeparatorParser recognises `#name` marker lines inside an open block
// component. The marker has no space after the hash, which keeps it from
// colliding with ATX headings.
type slotSeparatorParser struct{}

// NewSlotSeparatorParser returns the block parser for slot markers.
func NewSlotSeparatorParser() parser.BlockParser {
	return &slotSeparatorParser{}
}

func (p *slotSeparatorParser) Trigger() []byte {
	return []byte{'#'}
}

func (p *slotSeparatorParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	if parent == nil || parent.Kind() != KindBlockComponent {
		return nil, parser.NoChildren
	}

	line, segment := reader.PeekLine()
	pos := util.TrimLeftSpaceLength(line)
	if pos > 3 {
		return nil, parser.NoChildren
	}

	match := slotPattern.FindSubmatch(line[pos:])
	if match == nil {
		return nil, parser.NoChildren
	}

	reader.Advance(segment.Len() - 1)
	return NewSlotSeparator(string(match[1])), parser.NoChildren
}

func (p *slotSeparatorParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *slotSeparatorParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
}

func (p *slotSeparatorParser) CanInterruptParagraph() bool {
	return true
}

func (p *slotSeparatorParser) CanAcceptIndentedLine() bool {
	return false
}
