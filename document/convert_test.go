package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

func sampleDocument() *interfaces.Document {
	nav := true
	return &interfaces.Document{
		FilePath:    "1.blog/1.first.md",
		Path:        "/blog/first",
		Slug:        "first",
		Locale:      "en",
		Title:       "First Post",
		Description: "An opening post.",
		FrontMatter: interfaces.FrontMatter{
			Title:      "First Post",
			Layout:     "article",
			Tags:       []string{"go"},
			Navigation: &nav,
			Raw: map[string]any{
				"title":      "First Post",
				"layout":     "article",
				"tags":       []string{"go"},
				"navigation": true,
				"category":   "news",
			},
		},
		Body:     []byte("First post body."),
		BodyHTML: []byte("<p>First post body.</p>"),
		AST: &interfaces.Node{
			Type: interfaces.NodeRoot,
			Children: []*interfaces.Node{
				interfaces.NewElement("p", nil, interfaces.NewText("First post body.")),
			},
		},
		TOC:          &interfaces.TOC{Depth: 2, SearchDepth: 2},
		Position:     "001001",
		Checksum:     []byte{0xde, 0xad, 0xbe, 0xef},
		LastModified: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestFromDocumentDeterministicID(t *testing.T) {
	first, err := FromDocument(sampleDocument())
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	second, err := FromDocument(sampleDocument())
	if err != nil {
		t.Fatalf("from document: %v", err)
	}

	if first.ID == uuid.Nil {
		t.Fatal("expected non-nil id")
	}
	if first.ID != second.ID {
		t.Fatal("expected repeated conversion to produce the same id")
	}

	other := sampleDocument()
	other.Locale = "es"
	third, err := FromDocument(other)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	if third.ID == first.ID {
		t.Fatal("expected locale to participate in the id")
	}
}

func TestFromDocumentEncodesArtifacts(t *testing.T) {
	record, err := FromDocument(sampleDocument())
	if err != nil {
		t.Fatalf("from document: %v", err)
	}

	if record.Checksum != "deadbeef" {
		t.Fatalf("expected hex checksum, got %q", record.Checksum)
	}
	if len(record.AST) == 0 {
		t.Fatal("expected encoded ast")
	}
	if record.Excerpt != nil {
		t.Fatalf("expected nil excerpt encoding, got %s", record.Excerpt)
	}
	if len(record.TOC) == 0 {
		t.Fatal("expected encoded toc")
	}
	if record.Meta["category"] != "news" {
		t.Fatalf("expected metadata map, got %v", record.Meta)
	}
	if record.BodyHTML != "<p>First post body.</p>" {
		t.Fatalf("unexpected html: %q", record.BodyHTML)
	}
}

func TestFromDocumentValidation(t *testing.T) {
	if _, err := FromDocument(nil); err == nil {
		t.Fatal("expected nil document rejected")
	}

	doc := sampleDocument()
	doc.Path = ""
	if _, err := FromDocument(doc); err != ErrPathRequired {
		t.Fatalf("expected ErrPathRequired, got %v", err)
	}

	doc = sampleDocument()
	doc.Locale = ""
	if _, err := FromDocument(doc); err != ErrLocaleRequired {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	original := sampleDocument()
	record, err := FromDocument(original)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}

	restored, err := record.ToDocument()
	if err != nil {
		t.Fatalf("to document: %v", err)
	}

	if restored.Path != original.Path || restored.Locale != original.Locale {
		t.Fatalf("unexpected identity fields: %+v", restored)
	}
	if restored.Title != "First Post" || restored.Slug != "first" {
		t.Fatalf("unexpected title/slug: %+v", restored)
	}
	if !bytes.Equal(restored.Checksum, original.Checksum) {
		t.Fatalf("expected checksum restored, got %x", restored.Checksum)
	}
	if !bytes.Equal(restored.Body, original.Body) {
		t.Fatal("expected body restored")
	}
	if restored.AST == nil || len(restored.AST.Children) != 1 {
		t.Fatalf("expected ast restored, got %+v", restored.AST)
	}
	if restored.AST.Children[0].Tag != "p" {
		t.Fatalf("unexpected ast child: %+v", restored.AST.Children[0])
	}
	if restored.Excerpt != nil {
		t.Fatal("expected no excerpt")
	}
	if restored.TOC == nil || restored.TOC.Depth != 2 {
		t.Fatalf("expected toc restored, got %+v", restored.TOC)
	}
	if restored.FrontMatter.Layout != "article" {
		t.Fatalf("expected layout projected from meta, got %q", restored.FrontMatter.Layout)
	}
	if len(restored.FrontMatter.Tags) != 1 || restored.FrontMatter.Tags[0] != "go" {
		t.Fatalf("expected tags projected, got %v", restored.FrontMatter.Tags)
	}
	if restored.FrontMatter.Navigation == nil || !*restored.FrontMatter.Navigation {
		t.Fatal("expected navigation flag projected")
	}
	if !restored.LastModified.Equal(original.LastModified) {
		t.Fatalf("unexpected modification time: %v", restored.LastModified)
	}
}

func TestToDocumentNilRecord(t *testing.T) {
	var record *Record
	if _, err := record.ToDocument(); err == nil {
		t.Fatal("expected nil record rejected")
	}
}
