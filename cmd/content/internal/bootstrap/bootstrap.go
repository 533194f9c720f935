package bootstrap

import (
	"context"
	"fmt"
	"strings"

	mdc "github.com/goliatone/go-mdc"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// Options captures configuration for content CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Driver         string
	DSN            string
	Unsafe         bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the content module with the service and logger the CLIs use.
type Module struct {
	Module  *mdc.Module
	Service interfaces.ContentService
	Logger  interfaces.Logger
}

// BuildModule constructs a content module configured for CLI operations and
// applies storage migrations.
func BuildModule(opts Options) (*Module, error) {
	cfg := mdc.DefaultConfig()
	cfg.Content.Dir = strings.TrimSpace(opts.ContentDir)
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive
	if opts.LocalePatterns != nil {
		cfg.Content.LocalePatterns = opts.LocalePatterns
	}
	if len(opts.Locales) > 0 {
		cfg.Content.Locales = cloneStrings(opts.Locales)
	}
	if locale := strings.TrimSpace(opts.DefaultLocale); locale != "" {
		cfg.DefaultLocale = locale
	}
	if driver := strings.TrimSpace(opts.Driver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	cfg.Markdown.Unsafe = opts.Unsafe

	mdcOpts := []mdc.Option{}
	if opts.LoggerProvider != nil {
		mdcOpts = append(mdcOpts, mdc.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := mdc.New(cfg, mdcOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise content module: %w", err)
	}
	if err := module.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("apply storage migrations: %w", err)
	}

	service := module.Content()
	if service == nil {
		return nil, fmt.Errorf("content service not configured")
	}

	logger := logging.MarkdownLogger(module.LoggerProvider())

	return &Module{
		Module:  module,
		Service: service,
		Logger:  logger,
	}, nil
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
