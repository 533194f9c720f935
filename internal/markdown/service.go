package markdown

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	mdcdocument "github.com/goliatone/go-mdc/document"
	"github.com/goliatone/go-mdc/internal/ast"
	internaldocument "github.com/goliatone/go-mdc/internal/document"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/internal/schema"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// ServiceConfig wires the content service dependencies.
type ServiceConfig struct {
	Loader *Loader
	Parser interfaces.MarkdownParser
	Store  *internaldocument.Store
	// Schema validates frontmatter when imports name a schema ID. Optional.
	Schema *schema.Validator
	Logger interfaces.Logger
}

// Service implements interfaces.ContentService: loading content files,
// rendering Markdown, and importing or synchronising documents with the
// store.
type Service struct {
	loader *Loader
	parser interfaces.MarkdownParser
	store  *internaldocument.Store
	schema *schema.Validator
	logger interfaces.Logger
}

// NewService builds the service. Loader and Parser are required; Store may
// be nil for parse-only hosts, in which case import operations fail.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("markdown: service requires a loader")
	}
	if cfg.Parser == nil {
		return nil, fmt.Errorf("markdown: service requires a parser")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		loader: cfg.Loader,
		parser: cfg.Parser,
		store:  cfg.Store,
		schema: cfg.Schema,
		logger: logger,
	}, nil
}

// Load reads and parses a single content file.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, path, loadParams(opts))
	if err != nil {
		return nil, err
	}
	if err := s.parseBody(result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory discovers and parses every content file under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, loadParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.parseBody(result.Document, opts.Parser); err != nil {
			return nil, fmt.Errorf("parse %s: %w", result.Document.FilePath, err)
		}
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Render parses a detached Markdown fragment.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) (*interfaces.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, opts)
}

// Import upserts one parsed document. Unchanged checksums skip the write.
func (s *Service) Import(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	result := &interfaces.ImportResult{}
	if err := s.importOne(ctx, doc, opts, result); err != nil {
		return result, err
	}
	return result, nil
}

// ImportDirectory loads a content tree and imports every document. Per-file
// failures collect into the result instead of aborting the run.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	docs, err := s.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}

	result := &interfaces.ImportResult{}
	for _, doc := range docs {
		if err := s.importOne(ctx, doc, opts, result); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
		}
	}
	return result, nil
}

// Sync reconciles the store with a content tree: create new documents,
// update changed ones when UpdateExisting is set, and optionally delete
// records whose files disappeared.
func (s *Service) Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if s.store == nil {
		return nil, errStoreRequired
	}

	docs, err := s.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}

	result := &interfaces.SyncResult{}
	locales := map[string][]string{}

	for _, doc := range docs {
		locales[doc.Locale] = append(locales[doc.Locale], doc.FilePath)

		state, err := s.writeDocument(ctx, doc, opts.ImportOptions, !opts.UpdateExisting)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
			continue
		}
		switch state {
		case writeCreated:
			result.Created++
		case writeUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	if opts.DeleteOrphaned && !opts.DryRun {
		// locales missing from the walk entirely still need their orphans
		// removed, so fold in every locale the store knows about
		stored, err := s.store.Locales(ctx)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("list locales: %w", err))
		}
		for _, locale := range stored {
			if _, ok := locales[locale]; !ok {
				locales[locale] = nil
			}
		}
		for locale, keep := range locales {
			deleted, err := s.store.DeleteOrphans(ctx, locale, keep)
			result.Deleted += deleted
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("delete orphans (%s): %w", locale, err))
			}
		}
	}

	s.logger.Info("sync completed",
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

var errStoreRequired = errors.New("markdown: document store not configured")

type writeState int

const (
	writeSkipped writeState = iota
	writeCreated
	writeUpdated
)

func (s *Service) importOne(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, result *interfaces.ImportResult) error {
	state, err := s.writeDocument(ctx, doc, opts, false)
	if err != nil {
		return err
	}
	switch state {
	case writeCreated:
		result.CreatedPaths = append(result.CreatedPaths, doc.Path)
	case writeUpdated:
		result.UpdatedPaths = append(result.UpdatedPaths, doc.Path)
	default:
		result.SkippedPaths = append(result.SkippedPaths, doc.Path)
	}
	return nil
}

// writeDocument persists one document. skipExisting suppresses updates to
// already-stored documents (sync without UpdateExisting).
func (s *Service) writeDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, skipExisting bool) (writeState, error) {
	if s.store == nil {
		return writeSkipped, errStoreRequired
	}
	if doc == nil {
		return writeSkipped, mdcdocument.ErrBodyInvalid
	}

	if opts.SchemaID != "" {
		if s.schema == nil {
			return writeSkipped, schema.ErrSchemaUnknown
		}
		if err := s.schema.Validate(opts.SchemaID, doc.Path, doc.Meta()); err != nil {
			return writeSkipped, err
		}
	}

	record, err := mdcdocument.FromDocument(doc)
	if err != nil {
		return writeSkipped, err
	}

	existing, err := s.store.GetByID(ctx, record.ID)
	switch {
	case err == nil:
		if bytes.Equal(doc.Checksum, decodeChecksum(existing.Checksum)) {
			return writeSkipped, nil
		}
		if skipExisting {
			return writeSkipped, nil
		}
		if opts.DryRun {
			return writeUpdated, nil
		}
		if _, _, err := s.store.Upsert(ctx, record); err != nil {
			return writeSkipped, err
		}
		return writeUpdated, nil
	case errors.Is(err, mdcdocument.ErrDocumentNotFound):
		if opts.DryRun {
			return writeCreated, nil
		}
		if _, _, err := s.store.Upsert(ctx, record); err != nil {
			return writeSkipped, err
		}
		return writeCreated, nil
	default:
		return writeSkipped, err
	}
}

// parseBody fills the AST, excerpt, TOC, and HTML fields of a loaded
// document. Directory metadata documents have no Markdown body to parse.
func (s *Service) parseBody(doc *interfaces.Document, opts interfaces.ParseOptions) error {
	if doc == nil || doc.Partial && len(doc.Body) == 0 {
		return nil
	}

	parsed, err := s.parser.ParseWithOptions(doc.Body, normalizeOptions(opts))
	if err != nil {
		return err
	}

	doc.AST = parsed.AST
	doc.Excerpt = parsed.Excerpt
	doc.TOC = parsed.TOC
	doc.BodyHTML = parsed.HTML

	if doc.Title == "" {
		if heading := ast.FirstHeading(parsed.AST, 1); heading != "" {
			doc.Title = heading
		} else {
			doc.Title = titleFromSlug(doc.Slug)
		}
	}
	if doc.Description == "" {
		source := parsed.Excerpt
		if source == nil {
			source = parsed.AST
		}
		doc.Description = ast.Summarize(source, descriptionLimit)
	}
	return nil
}

// descriptionLimit bounds fallback descriptions derived from body text.
const descriptionLimit = 200

func titleFromSlug(slug string) string {
	slug = strings.ReplaceAll(slug, "-", " ")
	if slug == "" {
		return ""
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}

func loadParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:        opts.Pattern,
		LocalePatterns: opts.LocalePatterns,
		Recursive:      opts.Recursive,
	}
}

func decodeChecksum(hexsum string) []byte {
	decoded, err := hex.DecodeString(hexsum)
	if err != nil {
		return nil
	}
	return decoded
}

var _ interfaces.ContentService = (*Service)(nil)
