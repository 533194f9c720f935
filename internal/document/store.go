package document

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

const cachePrefix = "mdc:documents"

// Store persists document records through a bun repository with optional
// read-through caching.
type Store struct {
	repo         repository.Repository[*Record]
	cacheService cache.CacheService
	logger       interfaces.Logger
}

// NewStore builds a store without caching.
func NewStore(db *bun.DB) *Store {
	return NewStoreWithCache(db, nil, nil, nil)
}

// NewStoreWithCache wraps the repository in a read-through cache when both a
// cache service and key serializer are supplied.
func NewStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer, logger interfaces.Logger) *Store {
	base := NewDocumentRepository(db)
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Store{
		repo:         wrapWithCache(base, cacheService, keySerializer),
		cacheService: cacheService,
		logger:       logger,
	}
}

// Upsert writes the record, updating in place when the deterministic ID
// already exists. The second return reports whether a new record was created.
func (s *Store) Upsert(ctx context.Context, record *Record) (*Record, bool, error) {
	if record == nil {
		return nil, false, ErrPathRequired
	}

	existing, err := s.repo.GetByID(ctx, record.ID.String())
	if err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, false, mapRepositoryError(err, "document", record.Path)
		}
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, false, mapRepositoryError(err, "document", record.Path)
		}
		return created, true, nil
	}

	record.CreatedAt = existing.CreatedAt
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, false, mapRepositoryError(err, "document", record.Path)
	}
	return updated, false, nil
}

// GetByID fetches one record by its deterministic identifier.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "document", id.String())
	}
	return record, nil
}

// GetByPath fetches the record stored for a normalized path and locale.
func (s *Store) GetByPath(ctx context.Context, path, locale string) (*Record, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.path = ?", path).
				Where("?TableAlias.locale = ?", locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "document", path)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "document", Key: fmt.Sprintf("%s:%s", locale, path)}
	}
	return records[0], nil
}

// List exposes criteria-based listing for the query layer.
func (s *Store) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Record, int, error) {
	records, total, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, mapRepositoryError(err, "document", "")
	}
	return records, total, nil
}

// ListByLocale returns every record stored for a locale, partials and drafts
// included, ordered by position then path.
func (s *Store) ListByLocale(ctx context.Context, locale string) ([]*Record, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.locale = ?", locale).
				OrderExpr("?TableAlias.position ASC").
				OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "document", locale)
	}
	return records, nil
}

// Locales returns the distinct locales present in the store.
func (s *Store) Locales(ctx context.Context) ([]string, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.ColumnExpr("DISTINCT ?TableAlias.locale AS locale").
				OrderExpr("locale ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "document", "locales")
	}

	locales := make([]string, 0, len(records))
	for _, record := range records {
		if record.Locale != "" {
			locales = append(locales, record.Locale)
		}
	}
	return locales, nil
}

// DeleteByPath removes the record stored for a path and locale. Deleting an
// unknown path is a no-op.
func (s *Store) DeleteByPath(ctx context.Context, path, locale string) error {
	record, err := s.GetByPath(ctx, path, locale)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Delete(ctx, &Record{ID: record.ID})
}

// DeleteOrphans removes records whose file paths no longer appear in the
// source tree. Returns the number of deleted records.
func (s *Store) DeleteOrphans(ctx context.Context, locale string, keepFilePaths []string) (int, error) {
	keep := make(map[string]struct{}, len(keepFilePaths))
	for _, path := range keepFilePaths {
		keep[path] = struct{}{}
	}

	records, err := s.ListByLocale(ctx, locale)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, record := range records {
		if record.FilePath == "" {
			continue
		}
		if _, ok := keep[record.FilePath]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, &Record{ID: record.ID}); err != nil {
			return deleted, mapRepositoryError(err, "document", record.Path)
		}
		s.logger.Debug("deleted orphaned document", "path", record.Path, "locale", record.Locale)
		deleted++
	}
	return deleted, nil
}

// InvalidateCache drops every cached document entry.
func (s *Store) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
