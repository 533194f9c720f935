// Package schema validates document frontmatter against registered JSON
// Schemas. Sources declare a schema by ID; imports reject documents whose
// metadata fails validation.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid  = errors.New("schema: schema invalid")
	ErrSchemaUnknown  = errors.New("schema: unknown schema id")
	ErrSchemaIDNeeded = errors.New("schema: schema id is required")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// ValidationError reports why a document's frontmatter failed validation.
type ValidationError struct {
	SchemaID string
	Path     string
	Issues   []ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	detail := strings.Join(parts, "; ")
	if detail == "" {
		detail = "validation failed"
	}
	return fmt.Sprintf("schema %q rejected %q: %s", e.SchemaID, e.Path, detail)
}

// Validator compiles and caches frontmatter schemas by ID. Safe for
// concurrent use.
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator returns an empty validator.
func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// Register compiles schema and stores it under id. Re-registering an ID
// replaces the previous schema.
func (v *Validator) Register(id string, schema map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return ErrSchemaIDNeeded
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, id, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.compiled[id] = compiled
	return nil
}

// Has reports whether a schema is registered under id.
func (v *Validator) Has(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.compiled[id]
	return ok
}

// Validate checks meta against the schema registered under id. Path names
// the document for error reporting.
func (v *Validator) Validate(id, path string, meta map[string]any) error {
	v.mu.RLock()
	compiled, ok := v.compiled[id]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSchemaUnknown, id)
	}

	// round-trip through JSON so YAML-decoded values use the types the
	// validator expects
	normalized, err := normalizePayload(meta)
	if err != nil {
		return fmt.Errorf("schema: normalize payload for %q: %w", path, err)
	}

	if err := compiled.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{
				SchemaID: id,
				Path:     path,
				Issues:   collectIssues(validationErr),
			}
		}
		return &ValidationError{
			SchemaID: id,
			Path:     path,
			Issues:   []ValidationIssue{{Message: err.Error()}},
		}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	if schema == nil {
		return nil, errors.New("schema map is nil")
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func normalizePayload(meta map[string]any) (any, error) {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: node.InstanceLocation,
				Message:  node.Message,
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
