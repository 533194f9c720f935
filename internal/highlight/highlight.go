// Package highlight renders fenced code blocks to HTML through chroma.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "github"

// Highlighter converts source code into styled HTML. The zero value is not
// usable; construct through New.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// Config controls highlighting output.
type Config struct {
	// Style names a chroma style; unknown names fall back to the default.
	Style string
	// LineNumbers prepends line numbers to each row.
	LineNumbers bool
	// InlineStyles emits style attributes instead of CSS classes.
	InlineStyles bool
}

// New builds a highlighter. Unknown style names resolve to chroma's
// fallback style rather than failing.
func New(cfg Config) *Highlighter {
	name := cfg.Style
	if name == "" {
		name = DefaultStyle
	}
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	options := []chromahtml.Option{
		chromahtml.WithClasses(!cfg.InlineStyles),
	}
	if cfg.LineNumbers {
		options = append(options, chromahtml.WithLineNumbers(true))
	}

	return &Highlighter{
		style:     style,
		formatter: chromahtml.New(options...),
	}
}

// Highlight renders code as HTML. An empty or unknown language uses the
// plaintext fallback lexer so output shape stays stable.
func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenise %q: %w", language, err)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return "", fmt.Errorf("highlight: format %q: %w", language, err)
	}
	return sb.String(), nil
}
