package mdc

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	contentcmd "github.com/goliatone/go-mdc/internal/commands/content"
	internaldocument "github.com/goliatone/go-mdc/internal/document"
	"github.com/goliatone/go-mdc/internal/highlight"
	"github.com/goliatone/go-mdc/internal/identity"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/internal/logging/console"
	"github.com/goliatone/go-mdc/internal/logging/gologger"
	"github.com/goliatone/go-mdc/internal/markdown"
	"github.com/goliatone/go-mdc/internal/navigation"
	"github.com/goliatone/go-mdc/internal/render"
	"github.com/goliatone/go-mdc/internal/schema"
	"github.com/goliatone/go-mdc/pkg/interfaces"
	"github.com/goliatone/go-mdc/query"
)

// ContentService exports the content service contract for consumers of the mdc package.
type ContentService = interfaces.ContentService

// MarkdownParser exports the parser contract.
type MarkdownParser = interfaces.MarkdownParser

// ComponentRegistry exports the component registry contract.
type ComponentRegistry = interfaces.ComponentRegistry

// ComponentDefinition exports the component definition DTO.
type ComponentDefinition = interfaces.ComponentDefinition

// Renderer exports the AST renderer contract.
type Renderer = interfaces.Renderer

// Document exports the parsed document DTO.
type Document = interfaces.Document

// NavigationNode exports the navigation tree node.
type NavigationNode = navigation.Node

// URLResolver exports the navigation URL resolution contract.
type URLResolver = navigation.URLResolver

// ContentCommandHandlers exports the registered content command handler set.
type ContentCommandHandlers = contentcmd.HandlerSet

// CommandRegistry is the minimal registration contract command buses must
// satisfy so the module can attach its handlers.
type CommandRegistry = contentcmd.CommandRegistry

// Module is the top level content runtime façade. Construct through New;
// the zero value is not usable.
type Module struct {
	cfg Config

	db     *bun.DB
	ownsDB bool

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	store       *internaldocument.Store
	parser      *markdown.GoldmarkParser
	registry    *render.Registry
	renderer    interfaces.Renderer
	highlighter *highlight.Highlighter
	service     *markdown.Service
	validator   *schema.Validator
	resolver    navigation.URLResolver
	navigation  *navigation.Builder
	routes      *urlkit.RouteManager
	commands    *contentcmd.HandlerSet
}

// Option overrides a module dependency during construction.
type Option func(*options)

type options struct {
	db             *bun.DB
	sqlDB          *sql.DB
	fsys           fs.FS
	loggerProvider interfaces.LoggerProvider
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer
	components     []interfaces.ComponentDefinition
	renderer       interfaces.Renderer
	resolver       navigation.URLResolver
}

// WithDB injects a pre-configured bun database, bypassing driver selection.
func WithDB(db *bun.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithSQLDB injects an open *sql.DB; the module wraps it with the dialect
// selected by Storage.Driver. Required for the postgres driver, which the
// module does not open itself.
func WithSQLDB(db *sql.DB) Option {
	return func(o *options) {
		o.sqlDB = db
	}
}

// WithFS overrides the filesystem content is loaded from. Defaults to the
// host OS filesystem rooted at Content.Dir.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithLoggerProvider overrides the logger provider built from Logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.loggerProvider = provider
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(o *options) {
		o.cacheService = service
		o.keySerializer = serializer
	}
}

// WithComponents registers additional prose components after the built-ins.
func WithComponents(defs ...interfaces.ComponentDefinition) Option {
	return func(o *options) {
		o.components = append(o.components, defs...)
	}
}

// WithRenderer overrides the HTML renderer used for document bodies.
func WithRenderer(r interfaces.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithURLResolver overrides navigation URL resolution.
func WithURLResolver(r navigation.URLResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// New constructs a content module from cfg, wiring storage, parsing,
// rendering, queries and navigation according to the feature flags.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	m := &Module{cfg: cfg}

	provider, err := buildLoggerProvider(cfg, o.loggerProvider)
	if err != nil {
		return nil, err
	}
	m.loggerProvider = provider
	m.logger = logging.ModuleLogger(provider, "")

	if err := m.configureDatabase(o); err != nil {
		return nil, err
	}
	m.configureStore(o)

	if cfg.Features.Highlight && cfg.Highlight.Enabled {
		m.highlighter = highlight.New(highlight.Config{
			Style:        cfg.Highlight.Style,
			LineNumbers:  cfg.Highlight.LineNumbers,
			InlineStyles: cfg.Highlight.InlineStyles,
		})
	}

	if err := m.configureRenderer(o); err != nil {
		return nil, err
	}
	if err := m.configureSchema(); err != nil {
		return nil, err
	}
	if err := m.configureService(o); err != nil {
		return nil, err
	}
	m.configureNavigation(o)

	return m, nil
}

// Init applies storage migrations. Call once before importing content;
// repeated calls are safe.
func (m *Module) Init(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("mdc: no database configured")
	}
	return internaldocument.Migrate(ctx, m.db)
}

// Close releases the database when the module opened it. Injected databases
// stay open.
func (m *Module) Close() error {
	if !m.ownsDB || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Content returns the configured content service.
func (m *Module) Content() ContentService {
	return m.service
}

// Parser returns the configured Markdown parser.
func (m *Module) Parser() MarkdownParser {
	return m.parser
}

// Renderer returns the configured AST renderer.
func (m *Module) Renderer() Renderer {
	return m.renderer
}

// Components returns the component registry so hosts can register their own
// prose components.
func (m *Module) Components() ComponentRegistry {
	return m.registry
}

// Schemas returns the frontmatter schema validator. Nil when the schema
// feature is disabled.
func (m *Module) Schemas() *schema.Validator {
	return m.validator
}

// DB exposes the underlying bun handle for advanced integrations.
func (m *Module) DB() *bun.DB {
	return m.db
}

// LoggerProvider exposes the configured logger provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.loggerProvider
}

// Query starts a document query in the default locale, rooted at the
// supplied path prefix. An empty prefix selects every document.
func (m *Module) Query(prefix string) *query.Builder {
	return m.QueryLocale(m.cfg.DefaultLocale, prefix)
}

// QueryLocale starts a document query for a specific locale.
func (m *Module) QueryLocale(locale, prefix string) *query.Builder {
	return query.New(m.store, locale, prefix, logging.QueryLogger(m.loggerProvider))
}

// Navigation builds the navigation tree for the default locale.
func (m *Module) Navigation(ctx context.Context, prefix string) (*navigation.Node, error) {
	return m.NavigationLocale(ctx, m.cfg.DefaultLocale, prefix)
}

// NavigationLocale builds the navigation tree for a specific locale.
func (m *Module) NavigationLocale(ctx context.Context, locale, prefix string) (*navigation.Node, error) {
	if m.navigation == nil {
		return nil, fmt.Errorf("mdc: navigation feature is disabled")
	}
	return m.navigation.Build(ctx, locale, prefix)
}

// Routes exposes the urlkit route manager when navigation routing is
// configured.
func (m *Module) Routes() *urlkit.RouteManager {
	return m.routes
}

// RegisterCommands attaches the content command handlers to reg. Handlers
// are built once and reused across calls.
func (m *Module) RegisterCommands(reg CommandRegistry) (*ContentCommandHandlers, error) {
	if !m.cfg.Features.Commands {
		return nil, fmt.Errorf("mdc: commands feature is disabled")
	}
	if m.commands != nil {
		if reg == nil {
			return m.commands, nil
		}
		if err := reg.RegisterCommand(m.commands.Import); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(m.commands.Sync); err != nil {
			return nil, err
		}
		return m.commands, nil
	}

	set, err := contentcmd.RegisterContentCommands(reg, m.service, m.loggerProvider)
	if err != nil {
		return nil, err
	}
	m.commands = set
	return set, nil
}

// Source returns the named content source declaration, when configured.
func (m *Module) Source(name string) (SourceConfig, bool) {
	for _, src := range m.cfg.Content.Sources {
		if strings.EqualFold(src.Name, name) {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// ImportSource imports every document under the named source directory,
// validating against the source's schema when one is declared.
func (m *Module) ImportSource(ctx context.Context, name string) (*interfaces.ImportResult, error) {
	src, ok := m.Source(name)
	if !ok {
		return nil, fmt.Errorf("mdc: unknown content source %q", name)
	}
	m.logger.Debug("importing content source",
		"source", src.Name,
		"source_id", identity.SourceUUID(src.Name),
		"dir", src.Dir,
	)
	return m.service.ImportDirectory(ctx, src.Dir, interfaces.ImportOptions{SchemaID: src.SchemaID})
}

// SyncSource synchronises the named source directory with the store,
// updating changed documents and removing orphans.
func (m *Module) SyncSource(ctx context.Context, name string) (*interfaces.SyncResult, error) {
	src, ok := m.Source(name)
	if !ok {
		return nil, fmt.Errorf("mdc: unknown content source %q", name)
	}
	m.logger.Debug("syncing content source",
		"source", src.Name,
		"source_id", identity.SourceUUID(src.Name),
		"dir", src.Dir,
	)
	return m.service.Sync(ctx, src.Dir, interfaces.SyncOptions{
		ImportOptions:  interfaces.ImportOptions{SchemaID: src.SchemaID},
		DeleteOrphaned: true,
		UpdateExisting: true,
	})
}

func (m *Module) configureDatabase(o *options) error {
	if o.db != nil {
		m.db = o.db
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(m.cfg.Storage.Driver))
	switch driver {
	case "", "sqlite":
		sqlDB := o.sqlDB
		if sqlDB == nil {
			opened, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("mdc: open sqlite storage: %w", err)
			}
			sqlDB = opened
			m.ownsDB = true
		}
		m.db = bun.NewDB(sqlDB, sqlitedialect.New())
	case "postgres":
		if o.sqlDB == nil {
			return fmt.Errorf("mdc: postgres storage requires an injected database; use WithSQLDB or WithDB")
		}
		m.db = bun.NewDB(o.sqlDB, pgdialect.New())
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, m.cfg.Storage.Driver)
	}
	return nil
}

func (m *Module) configureStore(o *options) {
	storeLogger := logging.StoreLogger(m.loggerProvider)

	cacheService := o.cacheService
	keySerializer := o.keySerializer
	if m.cfg.Cache.Enabled && cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if m.cfg.Cache.DefaultTTL > 0 {
			cacheCfg.TTL = m.cfg.Cache.DefaultTTL
		}
		if service, err := repocache.NewCacheService(cacheCfg); err == nil {
			cacheService = service
		} else {
			storeLogger.Warn("cache service unavailable, continuing without cache", "error", err)
		}
	}
	if cacheService != nil && keySerializer == nil {
		keySerializer = repocache.NewDefaultKeySerializer()
	}

	if cacheService != nil {
		m.store = internaldocument.NewStoreWithCache(m.db, cacheService, keySerializer, storeLogger)
		return
	}
	m.store = internaldocument.NewStore(m.db)
}

func (m *Module) configureRenderer(o *options) error {
	m.registry = render.NewRegistry()
	if err := render.RegisterBuiltIns(m.registry); err != nil {
		return err
	}
	for _, def := range o.components {
		if err := m.registry.Register(def); err != nil {
			return err
		}
	}

	if o.renderer != nil {
		m.renderer = o.renderer
		return nil
	}
	m.renderer = render.New(render.Config{
		Registry:    m.registry,
		Highlighter: m.highlighter,
		Unsafe:      m.cfg.Markdown.Unsafe,
		Logger:      logging.RenderLogger(m.loggerProvider),
	})
	return nil
}

func (m *Module) configureSchema() error {
	if !m.cfg.Features.Schema {
		return nil
	}
	m.validator = schema.NewValidator()
	for _, src := range m.cfg.Content.Sources {
		if src.SchemaID == "" || src.Schema == nil {
			continue
		}
		if err := m.validator.Register(src.SchemaID, src.Schema); err != nil {
			return fmt.Errorf("mdc: register schema for source %q: %w", src.Name, err)
		}
	}
	return nil
}

func (m *Module) configureService(o *options) error {
	fsys := o.fsys
	basePath := m.cfg.Content.Dir
	if fsys == nil {
		fsys = os.DirFS(basePath)
		basePath = "."
	}

	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{
		BasePath:       basePath,
		DefaultLocale:  m.cfg.DefaultLocale,
		Locales:        m.cfg.Content.Locales,
		LocalePatterns: m.cfg.Content.LocalePatterns,
		Pattern:        m.cfg.Content.Pattern,
		Recursive:      m.cfg.Content.Recursive,
		DirMeta:        m.cfg.Content.DirMeta,
	})

	defaults := markdown.DefaultParseOptions()
	if len(m.cfg.Markdown.Extensions) > 0 {
		defaults.Extensions = m.cfg.Markdown.Extensions
	}
	defaults.MDC = m.cfg.Markdown.MDC
	defaults.HardWraps = m.cfg.Markdown.HardWraps
	defaults.Unsafe = m.cfg.Markdown.Unsafe
	if m.cfg.Markdown.TOCDepth > 0 {
		defaults.TOCDepth = m.cfg.Markdown.TOCDepth
	}
	if m.cfg.Markdown.TOCSearchDepth > 0 {
		defaults.TOCSearchDepth = m.cfg.Markdown.TOCSearchDepth
	}

	m.parser = markdown.NewParser(markdown.ParserConfig{
		Defaults: &defaults,
		Renderer: m.renderer,
		Logger:   logging.MarkdownLogger(m.loggerProvider),
	})

	service, err := markdown.NewService(markdown.ServiceConfig{
		Loader: loader,
		Parser: m.parser,
		Store:  m.store,
		Schema: m.validator,
		Logger: logging.MarkdownLogger(m.loggerProvider),
	})
	if err != nil {
		return err
	}
	m.service = service
	return nil
}

func (m *Module) configureNavigation(o *options) {
	if !m.cfg.Features.Navigation {
		return
	}

	resolver := o.resolver
	if resolver == nil {
		navCfg := m.cfg.Navigation
		if navCfg.RouteConfig != nil {
			m.routes = urlkit.NewRouteManager(navCfg.RouteConfig)
			resolver = navigation.NewURLKitResolver(navigation.URLKitResolverOptions{
				Manager:     m.routes,
				Group:       strings.TrimSpace(navCfg.URLKit.Group),
				Route:       strings.TrimSpace(navCfg.URLKit.Route),
				PathParam:   navCfg.URLKit.PathParam,
				LocaleParam: strings.TrimSpace(navCfg.URLKit.LocaleParam),
			})
		} else {
			resolver = navigation.PathResolver{}
		}
	}

	m.resolver = resolver
	m.navigation = navigation.NewBuilder(m.store, resolver, logging.NavigationLogger(m.loggerProvider))
}

func buildLoggerProvider(cfg Config, override interfaces.LoggerProvider) (interfaces.LoggerProvider, error) {
	if override != nil {
		return override, nil
	}
	if !cfg.Features.Logger {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "", "console":
		level := consoleLevel(cfg.Logging.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}
