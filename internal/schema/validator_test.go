package schema

import (
	"errors"
	"testing"
)

func articleSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"title", "category"},
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "minLength": 1},
			"category": map[string]any{"type": "string", "enum": []string{"blog", "guide"}},
			"weight":   map[string]any{"type": "integer", "minimum": 0},
		},
	}
}

func TestValidatorRegister(t *testing.T) {
	v := NewValidator()

	if err := v.Register("article", articleSchema()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !v.Has("article") {
		t.Fatal("expected schema registered")
	}
	if v.Has("unknown") {
		t.Fatal("expected unknown id absent")
	}

	if err := v.Register("  ", articleSchema()); !errors.Is(err, ErrSchemaIDNeeded) {
		t.Fatalf("expected id required error, got %v", err)
	}
	if err := v.Register("bad", nil); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected invalid schema error, got %v", err)
	}
	if err := v.Register("bad", map[string]any{"type": 12}); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected compile failure, got %v", err)
	}
}

func TestValidatorValidatePasses(t *testing.T) {
	v := NewValidator()
	if err := v.Register("article", articleSchema()); err != nil {
		t.Fatalf("register: %v", err)
	}

	meta := map[string]any{
		"title":    "Getting Started",
		"category": "guide",
		"weight":   3,
	}
	if err := v.Validate("article", "/docs/start", meta); err != nil {
		t.Fatalf("expected valid metadata, got %v", err)
	}
}

func TestValidatorValidateReportsIssues(t *testing.T) {
	v := NewValidator()
	if err := v.Register("article", articleSchema()); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := v.Validate("article", "/docs/start", map[string]any{
		"title":    "",
		"category": "news",
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if validationErr.SchemaID != "article" || validationErr.Path != "/docs/start" {
		t.Fatalf("unexpected error identity: %+v", validationErr)
	}
	if len(validationErr.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
	if msg := validationErr.Error(); msg == "" {
		t.Fatal("expected readable message")
	}
}

func TestValidatorValidateYAMLIntegers(t *testing.T) {
	v := NewValidator()
	if err := v.Register("article", articleSchema()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// yaml decodes numbers as int; the validator normalizes through JSON
	meta := map[string]any{
		"title":    "Post",
		"category": "blog",
		"weight":   int(7),
	}
	if err := v.Validate("article", "/blog/post", meta); err != nil {
		t.Fatalf("expected normalized integer accepted, got %v", err)
	}
}

func TestValidatorUnknownSchema(t *testing.T) {
	v := NewValidator()
	err := v.Validate("missing", "/docs/start", map[string]any{})
	if !errors.Is(err, ErrSchemaUnknown) {
		t.Fatalf("expected unknown schema error, got %v", err)
	}
}

func TestValidatorReRegisterReplaces(t *testing.T) {
	v := NewValidator()
	if err := v.Register("doc", map[string]any{"type": "object"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	strict := map[string]any{
		"type":     "object",
		"required": []string{"title"},
	}
	if err := v.Register("doc", strict); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if err := v.Validate("doc", "/x", map[string]any{}); err == nil {
		t.Fatal("expected replacement schema enforced")
	}
}
