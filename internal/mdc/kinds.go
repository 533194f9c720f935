package mdc

import (
	gast "github.com/yuin/goldmark/ast"
)

// KindBlockComponent identifies colon-fenced block component nodes.
var KindBlockComponent = gast.NewNodeKind("MDCBlockComponent")

// BlockComponent is a container block produced from `::name ... ::` fences.
type BlockComponent struct {
	gast.BaseBlock

	// Name is the component tag as written in the opening fence.
	Name string
	// Fence is the number of colons opening the block; the closing fence
	// must repeat the same count.
	Fence int
	// Attrs carries the inline props from the opening fence.
	Attrs map[string]any
}

// NewBlockComponent constructs a block component node.
func NewBlockComponent(name string, fence int, attrs map[string]any) *BlockComponent {
	return &BlockComponent{Name: name, Fence: fence, Attrs: attrs}
}

// Kind implements ast.Node.
func (n *BlockComponent) Kind() gast.NodeKind { return KindBlockComponent }

// Dump implements ast.Node.
func (n *BlockComponent) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// IsRaw implements ast.Node.
func (n *BlockComponent) IsRaw() bool { return false }

// KindSlotSeparator identifies `#name` slot marker lines inside a block
// component body.
var KindSlotSeparator = gast.NewNodeKind("MDCSlotSeparator")

// SlotSeparator marks the start of a named slot. Sibling blocks following a
// separator belong to that slot until the next separator or the closing
// fence.
type SlotSeparator struct {
	gast.BaseBlock

	Name string
}

// NewSlotSeparator constructs a slot separator node.
func NewSlotSeparator(name string) *SlotSeparator {
	return &SlotSeparator{Name: name}
}

// Kind implements ast.Node.
func (n *SlotSeparator) Kind() gast.NodeKind { return KindSlotSeparator }

// Dump implements ast.Node.
func (n *SlotSeparator) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// KindInlineComponent identifies `:name[inner]{props}` inline nodes.
var KindInlineComponent = gast.NewNodeKind("MDCInlineComponent")

// InlineComponent is an inline component invocation.
type InlineComponent struct {
	gast.BaseInline

	Name  string
	Inner string
	Attrs map[string]any
}

// NewInlineComponent constructs an inline component node.
func NewInlineComponent(name, inner string, attrs map[string]any) *InlineComponent {
	return &InlineComponent{Name: name, Inner: inner, Attrs: attrs}
}

// Kind implements ast.Node.
func (n *InlineComponent) Kind() gast.NodeKind { return KindInlineComponent }

// Dump implements ast.Node.
func (n *InlineComponent) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Inner": n.Inner}, nil)
}

// KindTextSpan identifies `[text]{attrs}` attribute spans.
var KindTextSpan = gast.NewNodeKind("MDCTextSpan")

// TextSpan attaches attributes to a run of plain text.
type TextSpan struct {
	gast.BaseInline

	// Value holds the span text. Named Value rather than Text because
	// ast.Node already requires a Text method.
	Value string
	Attrs map[string]any
}

// NewTextSpan constructs a text span node.
func NewTextSpan(text string, attrs map[string]any) *TextSpan {
	return &TextSpan{Value: text, Attrs: attrs}
}

// Kind implements ast.Node.
func (n *TextSpan) Kind() gast.NodeKind { return KindTextSpan }

// Dump implements ast.Node.
func (n *TextSpan) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Text": n.Value}, nil)
}

// KindAttributes identifies bare `{attrs}` runs that decorate the preceding
// inline element (**bold**{.highlight}).
var KindAttributes = gast.NewNodeKind("MDCAttributes")

// Attributes carries an attribute run until the converter merges it into its
// preceding sibling.
type Attributes struct {
	gast.BaseInline

	Attrs map[string]any
}

// NewAttributes constructs an attributes node.
func NewAttributes(attrs map[string]any) *Attributes {
	return &Attributes{Attrs: attrs}
}

// Kind implements ast.Node.
func (n *Attributes) Kind() gast.NodeKind { return KindAttributes }

// Dump implements ast.Node.
func (n *Attributes) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// KindBinding identifies `{{ $doc.field }}` data binding nodes.
var KindBinding = gast.NewNodeKind("MDCBinding")

// Binding defers value resolution to render time; Expr holds the dotted
// path including the `$doc.` prefix.
type Binding struct {
	gast.BaseInline

	Expr string
}

// NewBinding constructs a binding node.
func NewBinding(expr string) *Binding {
	return &Binding{Expr: expr}
}

// Kind implements ast.Node.
func (n *Binding) Kind() gast.NodeKind { return KindBinding }

// Dump implements ast.Node.
func (n *Binding) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Expr": n.Expr}, nil)
}
