package interfaces

import "time"

// Document represents a parsed content file before persistence. FilePath is
// the source-relative file location; Path is the normalized route path the
// document is addressed by (ordering prefixes stripped, index.md collapsed
// onto its directory).
type Document struct {
	FilePath    string
	Path        string
	Slug        string
	Locale      string
	Title       string
	Description string
	FrontMatter FrontMatter
	// Body holds the raw Markdown body with frontmatter delimiters removed.
	Body []byte
	// BodyHTML is populated lazily by render calls.
	BodyHTML []byte
	// AST is the portable body tree; Excerpt holds the nodes preceding the
	// excerpt divider when one is present.
	AST     *Node
	Excerpt *Node
	TOC     *TOC
	// Position is a lexicographic ordering key derived from numeric file
	// prefixes (1.blog/2.post.md), empty when no prefix is present.
	Position     string
	Draft        bool
	Partial      bool
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so sync
	// workflows can skip unchanged files without re-importing.
	Checksum []byte
}

// Meta returns the queryable metadata map for the document: every raw
// frontmatter key plus the derived title/description/path fields.
func (d *Document) Meta() map[string]any {
	if d == nil {
		return map[string]any{}
	}
	meta := make(map[string]any, len(d.FrontMatter.Raw)+4)
	for key, value := range d.FrontMatter.Raw {
		meta[key] = value
	}
	if d.Title != "" {
		meta["title"] = d.Title
	}
	if d.Description != "" {
		meta["description"] = d.Description
	}
	meta["path"] = d.Path
	meta["draft"] = d.Draft
	return meta
}

// FrontMatter models metadata extracted from content files. Unknown keys are
// collected in Custom; Raw carries the merged view so every provided key is
// queryable regardless of whether it maps to a struct field.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Slug        string         `yaml:"slug" json:"slug"`
	Layout      string         `yaml:"layout" json:"layout"`
	Tags        []string       `yaml:"tags" json:"tags"`
	Date        time.Time      `yaml:"date" json:"date"`
	Draft       bool           `yaml:"draft" json:"draft"`
	Navigation  *bool          `yaml:"-" json:"navigation,omitempty"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}

// InNavigation reports whether the document participates in navigation trees.
// Absent navigation keys default to visible.
func (fm FrontMatter) InNavigation() bool {
	if fm.Navigation == nil {
		return true
	}
	return *fm.Navigation
}
