package document

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the documents table and its lookup indexes. Safe to call on
// every startup.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("document: create table: %w", err)
	}
	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_path_locale ON documents(path, locale)",
		"CREATE INDEX IF NOT EXISTS idx_documents_locale_position ON documents(locale, position, path)",
		"CREATE INDEX IF NOT EXISTS idx_documents_file_path ON documents(file_path)",
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("document: create index: %w", err)
		}
	}
	return nil
}
