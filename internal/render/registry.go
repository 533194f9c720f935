package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// reservedTags are structural elements the renderer must keep control of.
var reservedTags = map[string]struct{}{
	"template": {},
	"binding":  {},
	"html":     {},
}

// Registry is the thread-safe in-memory implementation of
// interfaces.ComponentRegistry. Tags are matched case-insensitively.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ComponentDefinition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.ComponentDefinition),
	}
}

// Register stores a definition if it passes validation and the tag is free.
func (r *Registry) Register(def interfaces.ComponentDefinition) error {
	tag := strings.TrimSpace(strings.ToLower(def.Tag))
	if tag == "" {
		return fmt.Errorf("%w: tag is required", ErrInvalidComponent)
	}
	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("%w: tag %q", ErrInvalidComponent, def.Tag)
	}
	if _, reserved := reservedTags[tag]; reserved {
		return fmt.Errorf("%w: %q", ErrReservedTag, tag)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: handler is required for %q", ErrInvalidComponent, tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, tag)
	}

	r.definitions[tag] = def
	return nil
}

// Get returns the definition bound to tag.
func (r *Registry) Get(tag string) (interfaces.ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[strings.ToLower(tag)]
	return def, ok
}

// List returns all registered definitions in tag order.
func (r *Registry) List() []interfaces.ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ComponentDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, strings.ToLower(tag))
}

var _ interfaces.ComponentRegistry = (*Registry)(nil)
