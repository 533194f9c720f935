package interfaces

import "context"

// MarkdownParser converts raw Markdown bytes into the portable AST and HTML.
// Implementations are stateless so a single instance can be shared across
// requests without locking.
type MarkdownParser interface {
	// Parse converts Markdown using the parser's default settings.
	Parse(markdown []byte) (*ParseResult, error)
	// ParseWithOptions converts Markdown using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) (*ParseResult, error)
}

// ParseResult bundles the artifacts produced from one Markdown body.
type ParseResult struct {
	AST     *Node
	Excerpt *Node
	TOC     *TOC
	HTML    []byte
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	// MDC toggles the component dialect (block/inline components, span
	// attributes, bindings). Enabled by default at the service level.
	MDC       bool
	HardWraps bool
	// Unsafe allows raw HTML through to rendered output.
	Unsafe   bool
	TOCDepth int
	// TOCSearchDepth bounds how deep nested elements are searched for
	// headings when assembling the table of contents.
	TOCSearchDepth int
}

// ContentService exposes the high-level file workflows: load documents from
// a source tree, render them, and import or synchronise them with the
// document store.
type ContentService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) (*ParseResult, error)
	Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive      *bool
	Pattern        string
	LocalePatterns map[string]string
	Parser         ParseOptions
}

// ImportOptions controls how parsed documents are persisted.
type ImportOptions struct {
	// DryRun counts work without touching the store.
	DryRun bool
	// SchemaID selects a registered frontmatter schema to validate against.
	SchemaID string
}

// SyncOptions extends ImportOptions with update/delete semantics for
// repeated synchronisation runs.
type SyncOptions struct {
	ImportOptions
	DeleteOrphaned bool
	UpdateExisting bool
}

// ImportResult reports the outcome of an import run.
type ImportResult struct {
	CreatedPaths []string
	UpdatedPaths []string
	SkippedPaths []string
	Errors       []error
}

// SyncResult summarises a bulk sync run across many files.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}
