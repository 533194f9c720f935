package markdown

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	mdcdocument "github.com/goliatone/go-mdc/document"
	internaldocument "github.com/goliatone/go-mdc/internal/document"
	"github.com/goliatone/go-mdc/pkg/interfaces"
	"github.com/goliatone/go-mdc/pkg/testsupport"
)

func newServiceStore(t *testing.T) *internaldocument.Store {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := internaldocument.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return internaldocument.NewStore(db)
}

func newTestService(t *testing.T, fsys fstest.MapFS, store *internaldocument.Store) *Service {
	t.Helper()

	loader := NewLoader(fsys, LoaderConfig{
		BasePath:      ".",
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Recursive:     true,
		DirMeta:       true,
	})
	service, err := NewService(ServiceConfig{
		Loader: loader,
		Parser: NewParser(ParserConfig{}),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func mapFile(content string) *fstest.MapFile {
	return &fstest.MapFile{
		Data:    []byte(content),
		ModTime: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestServiceLoadFillsMetadataFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"guide.md": mapFile("# Guide Heading\n\nFirst paragraph of the guide.\n\nSecond paragraph.\n"),
	}
	service := newTestService(t, fsys, nil)

	doc, err := service.Load(context.Background(), "guide.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Guide Heading" {
		t.Fatalf("expected h1 title fallback, got %q", doc.Title)
	}
	if doc.Description != "First paragraph of the guide." {
		t.Fatalf("expected first-paragraph description fallback, got %q", doc.Description)
	}
}

func TestServiceLoadTitleFallsBackToSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"getting-started.md": mapFile("No headings here, just prose.\n"),
	}
	service := newTestService(t, fsys, nil)

	doc, err := service.Load(context.Background(), "getting-started.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Getting started" {
		t.Fatalf("expected slug-derived title, got %q", doc.Title)
	}
}

func TestServiceLoadKeepsFrontmatterMetadata(t *testing.T) {
	fsys := fstest.MapFS{
		"guide.md": mapFile("---\ntitle: Explicit\ndescription: Provided up front.\n---\n# Body Heading\n\nBody paragraph.\n"),
	}
	service := newTestService(t, fsys, nil)

	doc, err := service.Load(context.Background(), "guide.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Explicit" {
		t.Fatalf("expected frontmatter title kept, got %q", doc.Title)
	}
	if doc.Description != "Provided up front." {
		t.Fatalf("expected frontmatter description kept, got %q", doc.Description)
	}
}

func TestServiceLoadDescriptionPrefersExcerpt(t *testing.T) {
	fsys := fstest.MapFS{
		"post.md": mapFile("Teaser paragraph before the divider.\n\n<!--more-->\n\nFull body continues here.\n"),
	}
	service := newTestService(t, fsys, nil)

	doc, err := service.Load(context.Background(), "post.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Description != "Teaser paragraph before the divider." {
		t.Fatalf("expected excerpt-derived description, got %q", doc.Description)
	}
}

func TestServiceSyncDeletesVanishedLocales(t *testing.T) {
	ctx := context.Background()
	store := newServiceStore(t)

	full := fstest.MapFS{
		"docs/intro.md": mapFile("---\ntitle: Intro\n---\nIntro body.\n"),
		"es/guia.md":    mapFile("---\ntitle: Guia\n---\nCuerpo.\n"),
	}
	if _, err := newTestService(t, full, store).ImportDirectory(ctx, ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := store.GetByPath(ctx, "/es/guia", "es"); err != nil {
		t.Fatalf("expected es document stored: %v", err)
	}

	pruned := fstest.MapFS{
		"docs/intro.md": full["docs/intro.md"],
	}
	result, err := newTestService(t, pruned, store).Sync(ctx, ".", interfaces.SyncOptions{
		DeleteOrphaned: true,
		UpdateExisting: true,
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 deleted record, got %d", result.Deleted)
	}

	if _, err := store.GetByPath(ctx, "/es/guia", "es"); !errors.Is(err, mdcdocument.ErrDocumentNotFound) {
		t.Fatalf("expected es document removed, got %v", err)
	}
	if _, err := store.GetByPath(ctx, "/docs/intro", "en"); err != nil {
		t.Fatalf("expected en document kept: %v", err)
	}
}
