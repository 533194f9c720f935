package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-mdc/cmd/content/internal/bootstrap"
	contentcmd "github.com/goliatone/go-mdc/internal/commands/content"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("content sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("content-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering content files")
	locales := fs.String("locales", "", "Comma separated list of locales")
	defaultLocale := fs.String("default-locale", "en", "Default locale for documents without one")
	driver := fs.String("driver", "sqlite", "Storage driver (sqlite or postgres)")
	dsn := fs.String("dsn", "", "Storage DSN (defaults to an in-memory sqlite database)")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	schemaID := fs.String("schema", "", "Schema ID to validate frontmatter against")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting documents")
	deleteOrphaned := fs.Bool("delete-orphaned", true, "Remove stored documents whose source files disappeared")
	updateExisting := fs.Bool("update-existing", true, "Update stored documents whose source files changed")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		Driver:        *driver,
		DSN:           *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("content service not configured")
	}

	handler := contentcmd.NewSyncDirectoryHandler(module.Service, module.Logger)
	cmd := contentcmd.SyncDirectoryCommand{
		Directory:      *directory,
		SchemaID:       *schemaID,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
		UpdateExisting: *updateExisting,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "content sync command executed successfully")

	return nil
}
