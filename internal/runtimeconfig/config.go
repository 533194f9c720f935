package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrContentDirRequired = errors.New("mdc config: content directory is required")
var ErrStorageDriverUnknown = errors.New("mdc config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("mdc config: storage dsn is required")
var ErrCacheTTLInvalid = errors.New("mdc config: cache ttl must be zero or positive")
var ErrTOCDepthInvalid = errors.New("mdc config: toc depth must be zero or positive")
var ErrSourceNameRequired = errors.New("mdc config: source name is required")
var ErrSourceDirRequired = errors.New("mdc config: source directory is required")
var ErrLoggingProviderRequired = errors.New("mdc config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("mdc config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdc config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdc config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the content
// engine. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Content       ContentConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Markdown      MarkdownConfig
	Highlight     HighlightConfig
	Navigation    NavigationConfig
	Features      Features
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// ContentConfig captures filesystem discovery behaviour.
type ContentConfig struct {
	// Dir is the root directory where content documents live.
	Dir            string
	Pattern        string
	Recursive      bool
	DirMeta        bool
	Locales        []string
	LocalePatterns map[string]string
	// Sources declare named sub-trees with their own schema bindings.
	Sources []SourceConfig
}

// SourceConfig declares one named content source inside the content root.
type SourceConfig struct {
	Name   string
	Dir    string
	Prefix string
	// SchemaID names the frontmatter schema documents must satisfy.
	SchemaID string
	// Schema holds a JSON Schema map registered under SchemaID at startup.
	Schema map[string]any
}

// StorageConfig selects the bun driver backing the document store.
type StorageConfig struct {
	// Driver is sqlite or postgres.
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions     []string
	MDC            bool
	HardWraps      bool
	Unsafe         bool
	TOCDepth       int
	TOCSearchDepth int
}

// HighlightConfig controls code block highlighting.
type HighlightConfig struct {
	Enabled      bool
	Style        string
	LineNumbers  bool
	InlineStyles bool
}

// NavigationConfig captures routing configuration for navigation URL
// resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	Group       string
	Route       string
	PathParam   string
	LocaleParam string
}

// Features toggles module functionality.
type Features struct {
	Query      bool
	Navigation bool
	Highlight  bool
	Schema     bool
	Commands   bool
	Logger     bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded content engine.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Content: ContentConfig{
			Dir:            "content",
			Pattern:        "*.md",
			Recursive:      true,
			DirMeta:        true,
			Locales:        []string{"en"},
			LocalePatterns: map[string]string{},
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
			MDC:        true,
		},
		Highlight: HighlightConfig{
			Enabled: true,
			Style:   "github",
		},
		Navigation: NavigationConfig{},
		Features: Features{
			Query:      true,
			Navigation: true,
			Highlight:  true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	for _, source := range cfg.Content.Sources {
		if strings.TrimSpace(source.Name) == "" {
			return ErrSourceNameRequired
		}
		if strings.TrimSpace(source.Dir) == "" {
			return fmt.Errorf("%w: %s", ErrSourceDirRequired, source.Name)
		}
	}
	switch normalizeDriver(cfg.Storage.Driver) {
	case "sqlite", "postgres":
	case "":
		return ErrStorageDriverUnknown
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Markdown.TOCDepth < 0 || cfg.Markdown.TOCSearchDepth < 0 {
		return ErrTOCDepthInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
