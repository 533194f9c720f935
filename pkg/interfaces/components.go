package interfaces

import (
	"context"
	"html/template"
)

// ComponentRegistry describes the lifecycle contract for registering and
// resolving prose component definitions. Implementations must be safe for
// concurrent use.
type ComponentRegistry interface {
	// Register stores a definition and returns an error when a component
	// with the same tag already exists or the definition fails validation.
	Register(definition ComponentDefinition) error

	// Get returns the definition bound to the supplied tag.
	Get(tag string) (ComponentDefinition, bool)

	// List exposes the current catalogue in tag order.
	List() []ComponentDefinition

	// Remove deletes the component from the registry. Removing an unknown
	// component is a no-op.
	Remove(tag string)
}

// ComponentDefinition binds an element tag to a renderer. Tags are matched
// case-insensitively against AST element nodes; a definition may target a
// prose element (p, a, img, pre) or an MDC component name.
type ComponentDefinition struct {
	Tag         string
	Description string
	// Inline marks components rendered inside phrasing content so fallback
	// markup uses span instead of div.
	Inline  bool
	Handler ComponentHandler
}

// ComponentHandler renders one element node. Slots carries the rendered HTML
// of the node's slot children keyed by slot name ("default" always present
// for container components).
type ComponentHandler func(ctx RenderContext, node *Node, slots map[string]template.HTML) (template.HTML, error)

// RenderContext provides runtime metadata surfaced during rendering.
type RenderContext struct {
	Context context.Context
	// Document is the document being rendered; bindings resolve against its
	// metadata. May be nil when rendering detached fragments.
	Document *Document
}

// Renderer converts a document body AST into HTML.
type Renderer interface {
	Render(ctx RenderContext, node *Node) (template.HTML, error)
}
