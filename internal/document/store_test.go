package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-mdc/internal/identity"
	"github.com/goliatone/go-mdc/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), "DELETE FROM documents"); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return db
}

func newTestRecord(locale, path string) *Record {
	return &Record{
		ID:           identity.DocumentUUID(locale, path),
		Path:         path,
		Locale:       locale,
		Slug:         "doc",
		Title:        "Doc",
		FilePath:     "content" + path + ".md",
		Position:     "001001",
		Meta:         map[string]any{"title": "Doc"},
		Body:         []byte("body"),
		LastModified: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreUpsertCreatesThenUpdates(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	record := newTestRecord("en", "/blog/upsert")
	created, wasCreated, err := store.Upsert(ctx, record)
	if err != nil {
		t.Fatalf("create upsert: %v", err)
	}
	if !wasCreated {
		t.Fatal("expected first upsert to create")
	}

	changed := newTestRecord("en", "/blog/upsert")
	changed.Title = "Updated Doc"
	changed.CreatedAt = time.Time{}
	updated, wasCreated, err := store.Upsert(ctx, changed)
	if err != nil {
		t.Fatalf("update upsert: %v", err)
	}
	if wasCreated {
		t.Fatal("expected second upsert to update in place")
	}
	if updated.Title != "Updated Doc" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected created_at preserved, got %v vs %v", updated.CreatedAt, created.CreatedAt)
	}

	fetched, err := store.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.Title != "Updated Doc" {
		t.Fatalf("expected stored update, got %q", fetched.Title)
	}
}

func TestStoreUpsertNilRecord(t *testing.T) {
	store := NewStore(newTestDB(t))
	if _, _, err := store.Upsert(context.Background(), nil); err == nil {
		t.Fatal("expected nil record rejected")
	}
}

func TestStoreGetByPath(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	if _, _, err := store.Upsert(ctx, newTestRecord("en", "/docs/lookup")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := store.Upsert(ctx, newTestRecord("es", "/docs/lookup")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := store.GetByPath(ctx, "/docs/lookup", "es")
	if err != nil {
		t.Fatalf("get by path: %v", err)
	}
	if record.Locale != "es" {
		t.Fatalf("expected locale scoped lookup, got %q", record.Locale)
	}

	if _, err := store.GetByPath(ctx, "/docs/missing", "en"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreListByLocaleOrdersByPosition(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	first := newTestRecord("en", "/guide/install")
	first.Position = "001001"
	second := newTestRecord("en", "/guide/usage")
	second.Position = "001002"
	unordered := newTestRecord("en", "/guide/appendix")
	unordered.Position = "001999"
	other := newTestRecord("fr", "/guide/install")

	for _, record := range []*Record{unordered, second, first, other} {
		if _, _, err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("seed %s: %v", record.Path, err)
		}
	}

	records, err := store.ListByLocale(ctx, "en")
	if err != nil {
		t.Fatalf("list by locale: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	want := []string{"/guide/install", "/guide/usage", "/guide/appendix"}
	for i, path := range want {
		if records[i].Path != path {
			t.Fatalf("expected %s at %d, got %s", path, i, records[i].Path)
		}
	}
}

func TestStoreDeleteByPath(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	if _, _, err := store.Upsert(ctx, newTestRecord("en", "/notes/temp")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := store.DeleteByPath(ctx, "/notes/temp", "en"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByPath(ctx, "/notes/temp", "en"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}

	// unknown paths are a no-op
	if err := store.DeleteByPath(ctx, "/notes/never", "en"); err != nil {
		t.Fatalf("expected missing delete to succeed, got %v", err)
	}
}

func TestStoreDeleteOrphans(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	kept := newTestRecord("en", "/pages/kept")
	kept.FilePath = "content/pages/kept.md"
	orphan := newTestRecord("en", "/pages/orphan")
	orphan.FilePath = "content/pages/orphan.md"
	foreign := newTestRecord("de", "/pages/orphan")
	foreign.FilePath = "content/pages/orphan.md"

	for _, record := range []*Record{kept, orphan, foreign} {
		if _, _, err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("seed %s: %v", record.Path, err)
		}
	}

	deleted, err := store.DeleteOrphans(ctx, "en", []string{"content/pages/kept.md"})
	if err != nil {
		t.Fatalf("delete orphans: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 orphan deleted, got %d", deleted)
	}

	if _, err := store.GetByPath(ctx, "/pages/kept", "en"); err != nil {
		t.Fatalf("expected kept record to survive: %v", err)
	}
	if _, err := store.GetByPath(ctx, "/pages/orphan", "en"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected orphan removed, got %v", err)
	}
	if _, err := store.GetByPath(ctx, "/pages/orphan", "de"); err != nil {
		t.Fatalf("expected other locale untouched: %v", err)
	}
}

func TestStoreLocales(t *testing.T) {
	store := NewStore(newTestDB(t))
	ctx := context.Background()

	for _, seed := range []struct{ locale, path string }{
		{"en", "/pages/one"},
		{"en", "/pages/two"},
		{"es", "/paginas/uno"},
		{"de", "/seiten/eins"},
	} {
		if _, _, err := store.Upsert(ctx, newTestRecord(seed.locale, seed.path)); err != nil {
			t.Fatalf("seed %s %s: %v", seed.locale, seed.path, err)
		}
	}

	locales, err := store.Locales(ctx)
	if err != nil {
		t.Fatalf("locales: %v", err)
	}
	want := []string{"de", "en", "es"}
	if len(locales) != len(want) {
		t.Fatalf("expected %v, got %v", want, locales)
	}
	for i := range want {
		if locales[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, locales)
		}
	}
}
