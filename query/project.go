package query

import "github.com/goliatone/go-mdc/pkg/interfaces"

// projectable fields by name. Path and locale always survive projection so
// results stay addressable.
var projectableFields = map[string]struct{}{
	"title":       {},
	"description": {},
	"slug":        {},
	"position":    {},
	"body":        {},
	"html":        {},
	"ast":         {},
	"excerpt":     {},
	"toc":         {},
	"meta":        {},
}

func (b *Builder) project(docs []*interfaces.Document) {
	if len(b.only) == 0 && len(b.without) == 0 {
		return
	}

	drop := map[string]struct{}{}
	if len(b.only) > 0 {
		keep := map[string]struct{}{}
		for _, field := range b.only {
			keep[field] = struct{}{}
		}
		for field := range projectableFields {
			if _, ok := keep[field]; !ok {
				drop[field] = struct{}{}
			}
		}
	}
	for _, field := range b.without {
		drop[field] = struct{}{}
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		dropFields(doc, drop)
	}
}

func dropFields(doc *interfaces.Document, drop map[string]struct{}) {
	for field := range drop {
		switch field {
		case "title":
			doc.Title = ""
		case "description":
			doc.Description = ""
		case "slug":
			doc.Slug = ""
		case "position":
			doc.Position = ""
		case "body":
			doc.Body = nil
		case "html":
			doc.BodyHTML = nil
		case "ast":
			doc.AST = nil
		case "excerpt":
			doc.Excerpt = nil
		case "toc":
			doc.TOC = nil
		case "meta":
			doc.FrontMatter = interfaces.FrontMatter{}
		}
	}
}
