package markdown

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	docast "github.com/goliatone/go-mdc/internal/ast"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/internal/mdc"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// extensionRegistry maps configuration names to goldmark extenders so hosts
// can toggle syntax support without importing goldmark themselves.
var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"tasklist":      extension.TaskList,
	"linkify":       extension.Linkify,
	"typographer":   extension.Typographer,
	"footnote":      extension.Footnote,
}

// DefaultParseOptions mirror the settings used when a host supplies none.
func DefaultParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions:     []string{"gfm"},
		MDC:            true,
		TOCDepth:       docast.DefaultTOCDepth,
		TOCSearchDepth: docast.DefaultTOCSearchDepth,
	}
}

// ParserConfig configures a GoldmarkParser.
type ParserConfig struct {
	Defaults *interfaces.ParseOptions
	// Renderer, when set, fills ParseResult.HTML from the portable AST.
	Renderer interfaces.Renderer
	Logger   interfaces.Logger
}

// GoldmarkParser parses Markdown with goldmark plus the component dialect and
// emits the portable AST.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	renderer interfaces.Renderer
	logger   interfaces.Logger
}

// NewParser builds a parser from cfg, falling back to defaults for anything
// unset.
func NewParser(cfg ParserConfig) *GoldmarkParser {
	defaults := DefaultParseOptions()
	if cfg.Defaults != nil {
		defaults = normalizeOptions(*cfg.Defaults)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &GoldmarkParser{
		defaults: defaults,
		renderer: cfg.Renderer,
		logger:   logger,
	}
}

// Parse implements interfaces.MarkdownParser.
func (p *GoldmarkParser) Parse(markdown []byte) (*interfaces.ParseResult, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions implements interfaces.MarkdownParser.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) (*interfaces.ParseResult, error) {
	opts = normalizeOptions(opts)

	md, err := buildGoldmark(opts)
	if err != nil {
		return nil, err
	}

	doc := md.Parser().Parse(text.NewReader(markdown))
	root := convertTree(doc, markdown, opts)
	excerpt, _ := docast.SplitExcerpt(root)

	result := &interfaces.ParseResult{
		AST:     root,
		Excerpt: excerpt,
		TOC:     docast.BuildTOC(root, opts.TOCDepth, opts.TOCSearchDepth),
	}

	if p.renderer != nil {
		rendered, err := p.renderer.Render(interfaces.RenderContext{Context: context.Background()}, root)
		if err != nil {
			return nil, fmt.Errorf("markdown: render body: %w", err)
		}
		result.HTML = []byte(rendered)
	}

	return result, nil
}

func normalizeOptions(opts interfaces.ParseOptions) interfaces.ParseOptions {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{"gfm"}
	}
	if opts.TOCDepth <= 0 {
		opts.TOCDepth = docast.DefaultTOCDepth
	}
	if opts.TOCSearchDepth <= 0 {
		opts.TOCSearchDepth = docast.DefaultTOCSearchDepth
	}
	return opts
}

func buildGoldmark(opts interfaces.ParseOptions) (goldmark.Markdown, error) {
	extenders := make([]goldmark.Extender, 0, len(opts.Extensions)+1)
	for _, name := range opts.Extensions {
		ext, ok := extensionRegistry[name]
		if !ok {
			return nil, fmt.Errorf("markdown: unknown extension %q", name)
		}
		extenders = append(extenders, ext)
	}
	if opts.MDC {
		extenders = append(extenders, mdc.Extension)
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	return goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parserOptions...),
	), nil
}
