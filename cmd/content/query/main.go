package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-mdc/cmd/content/internal/bootstrap"
	"github.com/goliatone/go-mdc/pkg/interfaces"
	"github.com/goliatone/go-mdc/query"
)

var moduleBuilder = bootstrap.BuildModule

// whereFlag collects repeated -where clauses of the form "field op value".
type whereFlag []string

func (w *whereFlag) String() string { return strings.Join(*w, "; ") }

func (w *whereFlag) Set(value string) error {
	*w = append(*w, value)
	return nil
}

func main() {
	if err := runQuery(os.Args[1:]); err != nil {
		log.Fatalf("content query: %v", err)
	}
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("content-query", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering content files")
	locales := fs.String("locales", "", "Comma separated list of locales")
	defaultLocale := fs.String("default-locale", "en", "Default locale for documents without one")
	locale := fs.String("locale", "", "Locale to query (defaults to the default locale)")
	prefix := fs.String("prefix", "", "Path prefix to query under")
	sortField := fs.String("sort", "", "Metadata field to sort by")
	sortDesc := fs.Bool("desc", false, "Sort descending")
	limit := fs.Int("limit", 0, "Maximum number of documents to return")
	skip := fs.Int("skip", 0, "Number of documents to skip")
	drafts := fs.Bool("drafts", false, "Include draft documents")
	countOnly := fs.Bool("count", false, "Print the match count instead of documents")

	var wheres whereFlag
	fs.Var(&wheres, "where", "Filter clause \"field op value\" (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	if _, err := module.Service.ImportDirectory(ctx, ".", interfaces.ImportOptions{}); err != nil {
		return fmt.Errorf("import content: %w", err)
	}

	queryLocale := strings.TrimSpace(*locale)
	if queryLocale == "" {
		queryLocale = *defaultLocale
	}

	builder := module.Module.QueryLocale(queryLocale, *prefix)
	for _, clause := range wheres {
		field, op, value, err := parseWhere(clause)
		if err != nil {
			return err
		}
		builder = builder.Where(field, op, value)
	}
	if *sortField != "" {
		direction := query.Asc
		if *sortDesc {
			direction = query.Desc
		}
		builder = builder.Sort(*sortField, direction)
	}
	if *limit > 0 {
		builder = builder.Limit(*limit)
	}
	if *skip > 0 {
		builder = builder.Skip(*skip)
	}
	if *drafts {
		builder = builder.WithDrafts()
	}

	if *countOnly {
		count, err := builder.Count(ctx)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		fmt.Fprintln(os.Stdout, count)
		return nil
	}

	docs, err := builder.Find(ctx)
	if err != nil {
		return fmt.Errorf("find documents: %w", err)
	}

	type row struct {
		Path        string `json:"path"`
		Locale      string `json:"locale"`
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
		Position    string `json:"position,omitempty"`
	}
	rows := make([]row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, row{
			Path:        doc.Path,
			Locale:      doc.Locale,
			Title:       doc.Title,
			Description: doc.Description,
			Position:    doc.Position,
		})
	}

	encoded, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))

	return nil
}

// parseWhere splits "field op value" into a typed filter clause. Values that
// parse as numbers or booleans are converted so comparisons behave as the
// author expects.
func parseWhere(clause string) (string, query.Op, any, error) {
	parts := strings.SplitN(strings.TrimSpace(clause), " ", 3)
	if len(parts) != 3 {
		return "", "", nil, fmt.Errorf("invalid where clause %q, expected \"field op value\"", clause)
	}
	field := parts[0]
	op := query.Op(strings.ToLower(parts[1]))
	raw := parts[2]

	var value any = raw
	if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	} else if n, err := strconv.ParseFloat(raw, 64); err == nil {
		value = n
	} else if op == query.In || op == query.Nin {
		value = bootstrap.SplitLocales(raw)
	}

	return field, op, value, nil
}
