package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	mdcdocument "github.com/goliatone/go-mdc/document"
	internaldocument "github.com/goliatone/go-mdc/internal/document"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// Builder assembles a document query. Chained calls return a derived builder
// so partially built queries can be reused safely.
//
//	docs, err := store.Query("/blog").
//		Where("category", query.Eq, "go").
//		Sort("date", query.Desc).
//		Limit(10).
//		Find(ctx)
type Builder struct {
	store        *internaldocument.Store
	logger       interfaces.Logger
	locale       string
	prefix       string
	filters      []filter
	sorts        []sortKey
	limit        int
	skip         int
	only         []string
	without      []string
	withDrafts   bool
	withPartials bool
	err          error
}

// New builds a query rooted at the supplied path prefix. An empty prefix
// selects every document in the locale.
func New(store *internaldocument.Store, locale, prefix string, logger interfaces.Logger) *Builder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Builder{
		store:  store,
		logger: logger,
		locale: locale,
		prefix: normalizePrefix(prefix),
	}
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimSuffix(prefix, "/")
}

func (b *Builder) clone() *Builder {
	next := *b
	next.filters = append([]filter(nil), b.filters...)
	next.sorts = append([]sortKey(nil), b.sorts...)
	next.only = append([]string(nil), b.only...)
	next.without = append([]string(nil), b.without...)
	return &next
}

// Where adds a metadata filter. Field names may use dotted paths to reach
// nested frontmatter values.
func (b *Builder) Where(field string, op Op, value any) *Builder {
	next := b.clone()
	if field == "" {
		next.err = fmt.Errorf("query: empty filter field")
		return next
	}
	if !validOp(op) {
		next.err = fmt.Errorf("query: unknown operator %q", op)
		return next
	}
	next.filters = append(next.filters, filter{field: field, op: op, value: value})
	return next
}

// WhereField is an alias for Where kept for hosts that prefer the
// field-centric name.
func (b *Builder) WhereField(field string, op Op, value any) *Builder {
	return b.Where(field, op, value)
}

// Sort appends a sort clause. Clauses apply in the order added and the sort
// is stable, so earlier clauses win ties from later ones.
func (b *Builder) Sort(field string, direction Direction) *Builder {
	next := b.clone()
	if field == "" {
		next.err = fmt.Errorf("query: empty sort field")
		return next
	}
	next.sorts = append(next.sorts, sortKey{field: field, direction: direction})
	return next
}

// Limit caps the number of returned documents. Zero means no cap.
func (b *Builder) Limit(n int) *Builder {
	next := b.clone()
	next.limit = n
	return next
}

// Skip drops the first n matches.
func (b *Builder) Skip(n int) *Builder {
	next := b.clone()
	next.skip = n
	return next
}

// Only projects the result documents down to the named fields.
func (b *Builder) Only(fields ...string) *Builder {
	next := b.clone()
	next.only = append(next.only, fields...)
	return next
}

// Without drops the named fields from the result documents.
func (b *Builder) Without(fields ...string) *Builder {
	next := b.clone()
	next.without = append(next.without, fields...)
	return next
}

// WithDrafts includes draft documents, which are hidden by default.
func (b *Builder) WithDrafts() *Builder {
	next := b.clone()
	next.withDrafts = true
	return next
}

// WithPartials includes partial documents (underscore-prefixed files and
// directory metadata), hidden by default.
func (b *Builder) WithPartials() *Builder {
	next := b.clone()
	next.withPartials = true
	return next
}

// Find runs the query and returns every match.
func (b *Builder) Find(ctx context.Context) ([]*interfaces.Document, error) {
	docs, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}
	docs = b.window(docs)
	b.project(docs)
	return docs, nil
}

// FindOne returns the first match or document.ErrDocumentNotFound.
func (b *Builder) FindOne(ctx context.Context) (*interfaces.Document, error) {
	docs, err := b.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, mdcdocument.ErrDocumentNotFound
	}
	return docs[0], nil
}

// Count returns the number of matches, ignoring Limit and Skip.
func (b *Builder) Count(ctx context.Context) (int, error) {
	docs, err := b.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// FindSurround returns the documents immediately before and after path in
// the query's order. Either entry is nil at the edges.
func (b *Builder) FindSurround(ctx context.Context, path string) ([]*interfaces.Document, error) {
	docs, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, doc := range docs {
		if doc.Path == path {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, mdcdocument.ErrDocumentNotFound
	}

	surround := make([]*interfaces.Document, 2)
	if index > 0 {
		surround[0] = docs[index-1]
	}
	if index < len(docs)-1 {
		surround[1] = docs[index+1]
	}
	b.project(surround)
	return surround, nil
}

// resolve fetches candidates from the store (prefix and visibility pushed to
// SQL) and evaluates metadata filters and sorting in the engine.
func (b *Builder) resolve(ctx context.Context) ([]*interfaces.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.store == nil {
		return nil, fmt.Errorf("query: store not configured")
	}

	records, _, err := b.store.List(ctx, repository.SelectRawProcessor(b.selectQuery))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(records))
	for _, record := range records {
		doc, err := record.ToDocument()
		if err != nil {
			b.logger.Warn("skipping undecodable document", "path", record.Path, "error", err)
			continue
		}
		if b.matches(doc) {
			docs = append(docs, doc)
		}
	}

	b.sortDocs(docs)
	return docs, nil
}

func (b *Builder) selectQuery(q *bun.SelectQuery) *bun.SelectQuery {
	q = q.Where("?TableAlias.locale = ?", b.locale)
	if b.prefix != "" {
		q = q.Where("(?TableAlias.path = ? OR ?TableAlias.path LIKE ?)", b.prefix, b.prefix+"/%")
	}
	if !b.withDrafts {
		q = q.Where("?TableAlias.draft = ?", false)
	}
	if !b.withPartials {
		q = q.Where("?TableAlias.partial = ?", false)
	}
	return q.OrderExpr("?TableAlias.position ASC").OrderExpr("?TableAlias.path ASC")
}

func (b *Builder) matches(doc *interfaces.Document) bool {
	if len(b.filters) == 0 {
		return true
	}
	meta := docMeta(doc)
	for _, f := range b.filters {
		if !f.matches(meta) {
			return false
		}
	}
	return true
}

// docMeta exposes the queryable view of a document: frontmatter plus the
// derived path/position fields.
func docMeta(doc *interfaces.Document) map[string]any {
	meta := doc.Meta()
	meta["position"] = doc.Position
	meta["slug"] = doc.Slug
	meta["partial"] = doc.Partial
	return meta
}

func (b *Builder) sortDocs(docs []*interfaces.Document) {
	if len(b.sorts) == 0 {
		// store order already applies the default position/path sort
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range b.sorts {
			left, _ := lookupField(docMeta(docs[i]), key.field)
			right, _ := lookupField(docMeta(docs[j]), key.field)
			cmp := compareValues(left, right)
			if cmp == 0 {
				continue
			}
			if key.direction == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func (b *Builder) window(docs []*interfaces.Document) []*interfaces.Document {
	if b.skip > 0 {
		if b.skip >= len(docs) {
			return nil
		}
		docs = docs[b.skip:]
	}
	if b.limit > 0 && b.limit < len(docs) {
		docs = docs[:b.limit]
	}
	return docs
}
