package document

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-mdc/internal/identity"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// FromDocument converts a parsed document into its persisted record. IDs are
// deterministic over locale and path so repeated imports update in place.
func FromDocument(doc *interfaces.Document) (*Record, error) {
	if doc == nil {
		return nil, ErrBodyInvalid
	}
	if doc.Path == "" {
		return nil, ErrPathRequired
	}
	locale := doc.Locale
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	record := &Record{
		ID:           identity.DocumentUUID(locale, doc.Path),
		Path:         doc.Path,
		Locale:       locale,
		Slug:         doc.Slug,
		Title:        doc.Title,
		Description:  doc.Description,
		FilePath:     doc.FilePath,
		Position:     doc.Position,
		Draft:        doc.Draft,
		Partial:      doc.Partial,
		Meta:         doc.Meta(),
		Body:         doc.Body,
		BodyHTML:     string(doc.BodyHTML),
		Checksum:     hex.EncodeToString(doc.Checksum),
		LastModified: doc.LastModified,
	}

	var err error
	if record.AST, err = marshalJSON(doc.AST); err != nil {
		return nil, fmt.Errorf("document: encode ast: %w", err)
	}
	if record.Excerpt, err = marshalJSON(doc.Excerpt); err != nil {
		return nil, fmt.Errorf("document: encode excerpt: %w", err)
	}
	if record.TOC, err = marshalJSON(doc.TOC); err != nil {
		return nil, fmt.Errorf("document: encode toc: %w", err)
	}

	return record, nil
}

// ToDocument rebuilds the parsed document view from a stored record.
func (r *Record) ToDocument() (*interfaces.Document, error) {
	if r == nil {
		return nil, ErrDocumentNotFound
	}

	doc := &interfaces.Document{
		FilePath:     r.FilePath,
		Path:         r.Path,
		Slug:         r.Slug,
		Locale:       r.Locale,
		Title:        r.Title,
		Description:  r.Description,
		Body:         r.Body,
		BodyHTML:     []byte(r.BodyHTML),
		Position:     r.Position,
		Draft:        r.Draft,
		Partial:      r.Partial,
		LastModified: r.LastModified,
	}

	if checksum, err := hex.DecodeString(r.Checksum); err == nil {
		doc.Checksum = checksum
	}

	doc.FrontMatter = frontMatterFromMeta(r.Meta, r.Title, r.Description, r.Slug, r.Draft)

	if len(r.AST) > 0 {
		doc.AST = &interfaces.Node{}
		if err := json.Unmarshal(r.AST, doc.AST); err != nil {
			return nil, fmt.Errorf("document: decode ast: %w", err)
		}
	}
	if len(r.Excerpt) > 0 {
		doc.Excerpt = &interfaces.Node{}
		if err := json.Unmarshal(r.Excerpt, doc.Excerpt); err != nil {
			return nil, fmt.Errorf("document: decode excerpt: %w", err)
		}
	}
	if len(r.TOC) > 0 {
		doc.TOC = &interfaces.TOC{}
		if err := json.Unmarshal(r.TOC, doc.TOC); err != nil {
			return nil, fmt.Errorf("document: decode toc: %w", err)
		}
	}

	return doc, nil
}

func marshalJSON(value any) (json.RawMessage, error) {
	switch typed := value.(type) {
	case *interfaces.Node:
		if typed == nil {
			return nil, nil
		}
	case *interfaces.TOC:
		if typed == nil {
			return nil, nil
		}
	}
	return json.Marshal(value)
}

// frontMatterFromMeta reconstructs the typed frontmatter view from the stored
// metadata map. The raw map is authoritative; typed fields are projections.
func frontMatterFromMeta(meta map[string]any, title, description, slug string, draft bool) interfaces.FrontMatter {
	fm := interfaces.FrontMatter{
		Title:       title,
		Description: description,
		Slug:        slug,
		Draft:       draft,
		Raw:         meta,
	}
	if meta == nil {
		fm.Raw = map[string]any{}
		return fm
	}
	if layout, ok := meta["layout"].(string); ok {
		fm.Layout = layout
	}
	if tags, ok := meta["tags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				fm.Tags = append(fm.Tags, s)
			}
		}
	}
	if tags, ok := meta["tags"].([]string); ok {
		fm.Tags = tags
	}
	if nav, ok := meta["navigation"].(bool); ok {
		fm.Navigation = &nav
	}
	return fm
}
