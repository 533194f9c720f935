package render

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/goliatone/go-mdc/internal/highlight"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// Config assembles an HTMLRenderer.
type Config struct {
	Registry    interfaces.ComponentRegistry
	Highlighter *highlight.Highlighter
	// Unsafe lets raw HTML nodes through to the output.
	Unsafe bool
	Logger interfaces.Logger
}

// HTMLRenderer walks the portable AST and emits HTML. Registered components
// take over rendering of matching element nodes; everything else renders as
// plain markup.
type HTMLRenderer struct {
	registry    interfaces.ComponentRegistry
	highlighter *highlight.Highlighter
	unsafe      bool
	logger      interfaces.Logger
}

// New builds a renderer from cfg. A nil registry disables component dispatch.
func New(cfg Config) *HTMLRenderer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &HTMLRenderer{
		registry:    cfg.Registry,
		highlighter: cfg.Highlighter,
		unsafe:      cfg.Unsafe,
		logger:      logger,
	}
}

// Render implements interfaces.Renderer.
func (r *HTMLRenderer) Render(ctx interfaces.RenderContext, node *interfaces.Node) (template.HTML, error) {
	var sb strings.Builder
	if err := r.renderNode(ctx, node, &sb); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}

func (r *HTMLRenderer) renderNode(ctx interfaces.RenderContext, node *interfaces.Node, sb *strings.Builder) error {
	if node == nil {
		return nil
	}
	switch node.Type {
	case interfaces.NodeRoot:
		return r.renderChildren(ctx, node.Children, sb)
	case interfaces.NodeText:
		sb.WriteString(template.HTMLEscapeString(node.Value))
		return nil
	case interfaces.NodeComment:
		// comments carry markers like the excerpt divider, never output
		return nil
	case interfaces.NodeElement:
		return r.renderElement(ctx, node, sb)
	}
	return nil
}

func (r *HTMLRenderer) renderChildren(ctx interfaces.RenderContext, children []*interfaces.Node, sb *strings.Builder) error {
	for _, child := range children {
		if err := r.renderNode(ctx, child, sb); err != nil {
			return err
		}
	}
	return nil
}

func (r *HTMLRenderer) renderElement(ctx interfaces.RenderContext, node *interfaces.Node, sb *strings.Builder) error {
	tag := strings.ToLower(node.Tag)

	switch tag {
	case "html":
		if r.unsafe {
			sb.WriteString(node.Value)
		}
		return nil
	case "binding":
		return r.renderBinding(ctx, node, sb)
	}

	if r.registry != nil {
		if def, ok := r.registry.Get(tag); ok {
			return r.renderComponent(ctx, def, node, sb)
		}
	}

	if tag == "pre" {
		return r.renderCode(ctx, node, sb)
	}

	if _, known := htmlTags[tag]; known {
		return r.renderHTMLTag(ctx, tag, node, sb)
	}

	return r.renderFallback(ctx, tag, node, sb)
}

// renderHTMLTag writes a plain markup element.
func (r *HTMLRenderer) renderHTMLTag(ctx interfaces.RenderContext, tag string, node *interfaces.Node, sb *strings.Builder) error {
	if tag == "template" {
		// unclaimed slot wrappers stay transparent
		return r.renderChildren(ctx, node.Children, sb)
	}

	sb.WriteByte('<')
	sb.WriteString(tag)
	writeAttrs(sb, node.Props, nil)

	if _, void := voidTags[tag]; void {
		sb.WriteString(" />")
		return nil
	}

	sb.WriteByte('>')
	if err := r.renderChildren(ctx, node.Children, sb); err != nil {
		return err
	}
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
	return nil
}

// renderCode highlights fenced code blocks when a highlighter is configured,
// falling back to escaped pre/code markup.
func (r *HTMLRenderer) renderCode(ctx interfaces.RenderContext, node *interfaces.Node, sb *strings.Builder) error {
	code, _ := node.Props["code"].(string)
	language, _ := node.Props["language"].(string)

	if r.highlighter != nil && code != "" {
		highlighted, err := r.highlighter.Highlight(code, language)
		if err == nil {
			sb.WriteString(highlighted)
			return nil
		}
		r.logger.Warn("code highlight failed, emitting plain block", "language", language, "error", err)
	}

	sb.WriteString("<pre>")
	if err := r.renderChildren(ctx, node.Children, sb); err != nil {
		return err
	}
	sb.WriteString("</pre>")
	return nil
}

// renderBinding resolves a $doc expression against the document metadata.
// Unresolvable bindings render as empty strings.
func (r *HTMLRenderer) renderBinding(ctx interfaces.RenderContext, node *interfaces.Node, sb *strings.Builder) error {
	expr, _ := node.Props["value"].(string)
	value := ResolveBinding(ctx.Document, expr)
	if value != "" {
		sb.WriteString(template.HTMLEscapeString(value))
	}
	return nil
}

// renderComponent hands the node to its registered handler, pre-rendering
// slot content so handlers compose HTML without walking the AST.
func (r *HTMLRenderer) renderComponent(ctx interfaces.RenderContext, def interfaces.ComponentDefinition, node *interfaces.Node, sb *strings.Builder) error {
	slots := map[string]template.HTML{}

	var defaultSB strings.Builder
	for _, child := range node.Children {
		if name, ok := slotName(child); ok {
			var slotSB strings.Builder
			if err := r.renderChildren(ctx, child.Children, &slotSB); err != nil {
				return err
			}
			slots[name] = template.HTML(slotSB.String())
			continue
		}
		if err := r.renderNode(ctx, child, &defaultSB); err != nil {
			return err
		}
	}
	slots["default"] = template.HTML(defaultSB.String())

	out, err := def.Handler(ctx, node, slots)
	if err != nil {
		return fmt.Errorf("render: component %q: %w", def.Tag, err)
	}
	sb.WriteString(string(out))
	return nil
}

// renderFallback wraps unknown components in a div (or span for phrasing
// content) carrying the component name, so unregistered components degrade
// visibly instead of disappearing.
func (r *HTMLRenderer) renderFallback(ctx interfaces.RenderContext, tag string, node *interfaces.Node, sb *strings.Builder) error {
	wrapper := "div"
	if isInlineShape(node) {
		wrapper = "span"
	}

	sb.WriteByte('<')
	sb.WriteString(wrapper)
	sb.WriteString(` data-component="`)
	sb.WriteString(template.HTMLEscapeString(tag))
	sb.WriteByte('"')
	writeAttrs(sb, node.Props, nil)
	sb.WriteByte('>')

	for _, child := range node.Children {
		if _, ok := slotName(child); ok {
			if err := r.renderChildren(ctx, child.Children, sb); err != nil {
				return err
			}
			continue
		}
		if err := r.renderNode(ctx, child, sb); err != nil {
			return err
		}
	}

	sb.WriteString("</")
	sb.WriteString(wrapper)
	sb.WriteByte('>')
	return nil
}

// slotName detects template wrappers produced for named slots.
func slotName(node *interfaces.Node) (string, bool) {
	if node == nil || node.Type != interfaces.NodeElement || node.Tag != "template" {
		return "", false
	}
	for key := range node.Props {
		if strings.HasPrefix(key, "v-slot:") {
			return strings.TrimPrefix(key, "v-slot:"), true
		}
	}
	return "", false
}

// isInlineShape guesses whether an unknown component sits in phrasing
// content: text-only children with no block elements.
func isInlineShape(node *interfaces.Node) bool {
	for _, child := range node.Children {
		if child.Type == interfaces.NodeElement {
			return false
		}
	}
	return true
}

// ResolveBinding evaluates a `$doc.<path>` expression against a document's
// metadata. Unknown expressions resolve to the empty string.
func ResolveBinding(doc *interfaces.Document, expr string) string {
	expr = strings.TrimSpace(expr)
	if doc == nil || !strings.HasPrefix(expr, "$doc.") {
		return ""
	}
	path := strings.TrimPrefix(expr, "$doc.")

	var current any = doc.Meta()
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		if current, ok = node[part]; !ok {
			return ""
		}
	}
	if current == nil {
		return ""
	}
	if s, ok := current.(string); ok {
		return s
	}
	return fmt.Sprint(current)
}

// writeAttrs serializes props in key order. Class lists join with spaces,
// boolean true renders as a bare attribute, false and nil drop.
func writeAttrs(sb *strings.Builder, props map[string]any, skip map[string]struct{}) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		if skip != nil {
			if _, skipped := skip[key]; skipped {
				continue
			}
		}
		if strings.HasPrefix(key, "v-slot:") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]
		switch typed := value.(type) {
		case nil:
			continue
		case bool:
			if typed {
				sb.WriteByte(' ')
				sb.WriteString(key)
			}
		case []string:
			sb.WriteByte(' ')
			sb.WriteString(key)
			sb.WriteString(`="`)
			sb.WriteString(template.HTMLEscapeString(strings.Join(typed, " ")))
			sb.WriteByte('"')
		default:
			sb.WriteByte(' ')
			sb.WriteString(key)
			sb.WriteString(`="`)
			sb.WriteString(template.HTMLEscapeString(fmt.Sprint(typed)))
			sb.WriteByte('"')
		}
	}
}

var voidTags = map[string]struct{}{
	"img": {}, "hr": {}, "br": {}, "input": {},
}

var htmlTags = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"a": {}, "img": {}, "ul": {}, "ol": {}, "li": {}, "blockquote": {},
	"code": {}, "em": {}, "strong": {}, "del": {}, "hr": {}, "br": {},
	"table": {}, "thead": {}, "tbody": {}, "tr": {}, "th": {}, "td": {},
	"input": {}, "span": {}, "div": {}, "template": {},
}

var _ interfaces.Renderer = (*HTMLRenderer)(nil)
