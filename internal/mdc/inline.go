package mdc

import (
	"strings"
	"unicode"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// inlineComponentParser handles `:name`, `:name[inner]` and
// `:name[inner]{props}` invocations inside phrasing content.
type inlineComponentParser struct{}

// NewInlineComponentParser returns the inline parser for `:name` components.
func NewInlineComponentParser() parser.InlineParser {
	return &inlineComponentParser{}
}

func (p *inlineComponentParser) Trigger() []byte {
	return []byte{':'}
}

func (p *inlineComponentParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	if prev := block.PrecendingCharacter(); unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == ':' {
		return nil
	}

	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != ':' || line[1] == ':' {
		return nil
	}

	nameEnd := scanName(line, 1)
	if nameEnd < 0 {
		return nil
	}
	name := string(line[1:nameEnd])
	consumed := nameEnd

	inner := ""
	if consumed < len(line) && line[consumed] == '[' {
		end := scanBracketed(line, consumed)
		if end < 0 {
			return nil
		}
		inner = string(line[consumed+1 : end])
		consumed = end + 1
	}

	attrs := map[string]any{}
	if consumed < len(line) && line[consumed] == '{' {
		end := scanBraced(line, consumed)
		if end < 0 {
			return nil
		}
		parsed, ok := ParseAttributes(string(line[consumed+1 : end]))
		if !ok {
			return nil
		}
		attrs = parsed
		consumed = end + 1
	}

	block.Advance(consumed)
	return NewInlineComponent(name, inner, attrs)
}

// textSpanParser handles `[text]{attrs}`. Plain `[text](url)` links are left
// to the standard link parser by bailing out when no attribute run follows.
type textSpanParser struct{}

// NewTextSpanParser returns the inline parser for attribute spans.
func NewTextSpanParser() parser.InlineParser {
	return &textSpanParser{}
}

func (p *textSpanParser) Trigger() []byte {
	return []byte{'['}
}

func (p *textSpanParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if len(line) < 4 || line[0] != '[' {
		return nil
	}

	end := scanBracketed(line, 0)
	if end < 0 || end+1 >= len(line) || line[end+1] != '{' {
		return nil
	}

	braceEnd := scanBraced(line, end+1)
	if braceEnd < 0 {
		return nil
	}

	attrs, ok := ParseAttributes(string(line[end+2 : braceEnd]))
	if !ok {
		return nil
	}

	block.Advance(braceEnd + 1)
	return NewTextSpan(string(line[1:end]), attrs)
}

// curlyParser disambiguates `{{ $doc.field }}` bindings from `{attrs}` runs
// that decorate the preceding inline element.
type curlyParser struct{}

// NewCurlyParser returns the inline parser for bindings and attribute runs.
func NewCurlyParser() parser.InlineParser {
	return &curlyParser{}
}

func (p *curlyParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *curlyParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '{' {
		return nil
	}

	if line[1] == '{' {
		return p.parseBinding(line, block)
	}

	end := scanBraced(line, 0)
	if end < 0 {
		return nil
	}

	attrs, ok := ParseAttributes(string(line[1:end]))
	if !ok || len(attrs) == 0 {
		return nil
	}

	block.Advance(end + 1)
	return NewAttributes(attrs)
}

func (p *curlyParser) parseBinding(line []byte, block text.Reader) gast.Node {
	end := strings.Index(string(line), "}}")
	if end < 0 {
		return nil
	}

	expr := strings.TrimSpace(string(line[2:end]))
	if expr == "" {
		return nil
	}

	block.Advance(end + 2)
	return NewBinding(expr)
}

// scanName returns the index one past a component name starting at start, or
// -1 when no valid name begins there.
func scanName(line []byte, start int) int {
	if start >= len(line) {
		return -1
	}
	c := line[start]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return -1
	}
	i := start + 1
	for i < len(line) {
		c := line[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' {
			i++
			continue
		}
		break
	}
	return i
}

// scanBracketed returns the index of the `]` matching the `[` at open,
// honoring nesting, or -1.
func scanBracketed(line []byte, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// scanBraced returns the index of the `}` matching the `{` at open, skipping
// quoted values, or -1.
func scanBraced(line []byte, open int) int {
	var quote byte
	for i := open + 1; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '}':
			return i
		case '\n':
			return -1
		}
	}
	return -1
}
