// Package navigation assembles nested navigation trees from stored
// documents. Directories become branch nodes, index documents title their
// directory, and directory metadata files override titles and ordering.
package navigation

import (
	"context"
	"sort"
	"strings"

	internaldocument "github.com/goliatone/go-mdc/internal/document"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/internal/markdown"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// Node is one entry of the navigation tree.
type Node struct {
	Title    string         `json:"title"`
	Path     string         `json:"path"`
	URL      string         `json:"url,omitempty"`
	Position string         `json:"-"`
	Meta     map[string]any `json:"meta,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

// Builder constructs navigation trees from the document store.
type Builder struct {
	store    *internaldocument.Store
	resolver URLResolver
	logger   interfaces.Logger
}

// NewBuilder wires a navigation builder. A nil resolver falls back to the
// document path.
func NewBuilder(store *internaldocument.Store, resolver URLResolver, logger interfaces.Logger) *Builder {
	if resolver == nil {
		resolver = PathResolver{}
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Builder{store: store, resolver: resolver, logger: logger}
}

// Build assembles the tree for a locale under the supplied path prefix. An
// empty prefix builds the whole tree.
func (b *Builder) Build(ctx context.Context, locale, prefix string) (*Node, error) {
	records, err := b.store.ListByLocale(ctx, locale)
	if err != nil {
		return nil, err
	}

	prefix = normalizePrefix(prefix)
	root := &Node{Path: firstNonEmpty(prefix, "/")}
	index := map[string]*Node{root.Path: root}

	for _, record := range records {
		doc, err := record.ToDocument()
		if err != nil {
			b.logger.Warn("skipping undecodable document in navigation", "path", record.Path, "error", err)
			continue
		}
		if !inScope(doc.Path, prefix) {
			continue
		}
		if doc.Draft || !doc.FrontMatter.InNavigation() {
			continue
		}

		if doc.Partial {
			// only directory metadata decorates its directory node; other
			// partials stay out of the tree entirely
			if markdown.IsDirMeta(doc.FilePath) {
				b.applyDirMeta(index, root, prefix, doc)
			}
			continue
		}

		node := b.ensureNode(ctx, index, root, prefix, doc.Path)
		node.Position = doc.Position
		if node.Title == "" || doc.Title != "" {
			node.Title = firstNonEmpty(doc.Title, node.Title)
		}
		if url, err := b.resolver.Resolve(ctx, doc); err == nil && url != "" {
			node.URL = url
		}
	}

	sortTree(root)
	return root, nil
}

// ensureNode creates the node for path and every missing ancestor between
// path and the tree root.
func (b *Builder) ensureNode(ctx context.Context, index map[string]*Node, root *Node, prefix, path string) *Node {
	if node, ok := index[path]; ok {
		return node
	}

	parentPath := parentOf(path)
	var parent *Node
	if parentPath == "" || parentPath == prefix || parentPath == "/" {
		parent = root
	} else {
		parent = b.ensureNode(ctx, index, root, prefix, parentPath)
	}

	node := &Node{
		Path:  path,
		Title: titleFromSegment(path),
		URL:   path,
	}
	parent.Children = append(parent.Children, node)
	index[path] = node
	return node
}

func (b *Builder) applyDirMeta(index map[string]*Node, root *Node, prefix string, doc *interfaces.Document) {
	node := b.ensureNode(context.Background(), index, root, prefix, doc.Path)
	if doc.Title != "" {
		node.Title = doc.Title
	}
	meta := doc.FrontMatter.Raw
	if len(meta) > 0 {
		node.Meta = meta
	}
	if doc.Position != "" {
		node.Position = doc.Position
	}
}

func sortTree(node *Node) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		left, right := node.Children[i], node.Children[j]
		if left.Position != right.Position {
			// unordered entries sink below numbered siblings; synthesized
			// ancestors carry no position at all
			if left.Position == "" {
				return false
			}
			if right.Position == "" {
				return true
			}
			return left.Position < right.Position
		}
		return left.Path < right.Path
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func inScope(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func parentOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

func titleFromSegment(path string) string {
	segment := path[strings.LastIndex(path, "/")+1:]
	segment = strings.ReplaceAll(segment, "-", " ")
	if segment == "" {
		return ""
	}
	return strings.ToUpper(segment[:1]) + segment[1:]
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

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
