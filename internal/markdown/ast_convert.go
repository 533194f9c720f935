package markdown

import (
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdc/internal/mdc"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// converter walks a parsed goldmark tree and emits the portable AST.
type converter struct {
	source    []byte
	hardWraps bool
}

func convertTree(doc gast.Node, source []byte, opts interfaces.ParseOptions) *interfaces.Node {
	c := &converter{source: source, hardWraps: opts.HardWraps}
	root := &interfaces.Node{Type: interfaces.NodeRoot}
	root.Children = c.children(doc)
	return root
}

// children converts every child of parent, flattening transparent wrappers
// and merging trailing attribute runs into their preceding sibling.
func (c *converter) children(parent gast.Node) []*interfaces.Node {
	var out []*interfaces.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		for _, node := range c.node(child) {
			if node == nil {
				continue
			}
			if attrs, ok := pendingAttrs(node); ok {
				out = attachAttrs(out, attrs)
				continue
			}
			out = append(out, node)
		}
	}
	return out
}

// pendingAttrsTag marks attribute runs travelling through conversion before
// they merge into a sibling.
const pendingAttrsTag = "\x00attrs"

func pendingAttrs(node *interfaces.Node) (map[string]any, bool) {
	if node.Type == interfaces.NodeElement && node.Tag == pendingAttrsTag {
		return node.Props, true
	}
	return nil, false
}

// attachAttrs merges an attribute run into the last converted sibling. Bare
// text gains a span wrapper so the attributes have an element to live on.
func attachAttrs(siblings []*interfaces.Node, attrs map[string]any) []*interfaces.Node {
	if len(siblings) == 0 || len(attrs) == 0 {
		return siblings
	}
	last := siblings[len(siblings)-1]
	switch last.Type {
	case interfaces.NodeElement:
		last.Props = mdc.MergeAttributes(last.Props, attrs)
	case interfaces.NodeText:
		siblings[len(siblings)-1] = interfaces.NewElement("span", attrs, last)
	}
	return siblings
}

func (c *converter) node(n gast.Node) []*interfaces.Node {
	switch node := n.(type) {
	case *gast.Heading:
		el := interfaces.NewElement("h"+strconv.Itoa(node.Level), nodeAttributes(node))
		el.Children = c.children(node)
		return single(el)
	case *gast.Paragraph:
		el := interfaces.NewElement("p", nodeAttributes(node))
		el.Children = c.children(node)
		return single(el)
	case *gast.TextBlock:
		// Tight list items carry bare text blocks; surface the children
		// without a wrapper element.
		return c.children(node)
	case *gast.Blockquote:
		el := interfaces.NewElement("blockquote", nil)
		el.Children = c.children(node)
		return single(el)
	case *gast.List:
		return single(c.list(node))
	case *gast.ListItem:
		el := interfaces.NewElement("li", nil)
		el.Children = c.children(node)
		return single(el)
	case *gast.FencedCodeBlock:
		return single(c.fencedCode(node))
	case *gast.CodeBlock:
		return single(codeElement("", c.blockLines(node)))
	case *gast.ThematicBreak:
		return single(interfaces.NewElement("hr", nil))
	case *gast.HTMLBlock:
		return single(rawHTMLNode(c.htmlBlockText(node)))
	case *gast.RawHTML:
		return single(rawHTMLNode(c.segmentsText(node.Segments)))
	case *gast.Text:
		return c.text(node)
	case *gast.String:
		return single(interfaces.NewText(string(node.Value)))
	case *gast.CodeSpan:
		el := interfaces.NewElement("code", nil)
		el.Children = c.children(node)
		return single(el)
	case *gast.Emphasis:
		tag := "em"
		if node.Level == 2 {
			tag = "strong"
		}
		el := interfaces.NewElement(tag, nil)
		el.Children = c.children(node)
		return single(el)
	case *gast.Link:
		props := map[string]any{"href": string(node.Destination)}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		el := interfaces.NewElement("a", props)
		el.Children = c.children(node)
		return single(el)
	case *gast.AutoLink:
		url := string(node.URL(c.source))
		el := interfaces.NewElement("a", map[string]any{"href": url})
		el.AppendChild(interfaces.NewText(string(node.Label(c.source))))
		return single(el)
	case *gast.Image:
		props := map[string]any{"src": string(node.Destination)}
		if alt := c.plainText(node); alt != "" {
			props["alt"] = alt
		}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		return single(interfaces.NewElement("img", props))
	case *extast.Strikethrough:
		el := interfaces.NewElement("del", nil)
		el.Children = c.children(node)
		return single(el)
	case *extast.TaskCheckBox:
		props := map[string]any{"type": "checkbox", "disabled": true}
		if node.IsChecked {
			props["checked"] = true
		}
		return single(interfaces.NewElement("input", props))
	case *extast.Table:
		return single(c.table(node))
	case *mdc.BlockComponent:
		return single(c.blockComponent(node))
	case *mdc.SlotSeparator:
		// Grouped by blockComponent; a stray separator outside a component
		// renders as nothing.
		return nil
	case *mdc.InlineComponent:
		el := interfaces.NewElement(node.Name, node.Attrs)
		if node.Inner != "" {
			el.AppendChild(interfaces.NewText(node.Inner))
		}
		return single(el)
	case *mdc.TextSpan:
		el := interfaces.NewElement("span", node.Attrs)
		el.AppendChild(interfaces.NewText(node.Value))
		return single(el)
	case *mdc.Attributes:
		return single(&interfaces.Node{Type: interfaces.NodeElement, Tag: pendingAttrsTag, Props: node.Attrs})
	case *mdc.Binding:
		return single(interfaces.NewElement("binding", map[string]any{"value": node.Expr}))
	default:
		// Unknown kinds stay transparent so extension nodes never drop
		// their content.
		return c.children(n)
	}
}

func single(node *interfaces.Node) []*interfaces.Node {
	if node == nil {
		return nil
	}
	return []*interfaces.Node{node}
}

func (c *converter) text(node *gast.Text) []*interfaces.Node {
	value := string(node.Segment.Value(c.source))
	out := []*interfaces.Node{interfaces.NewText(value)}
	if node.HardLineBreak() || (c.hardWraps && node.SoftLineBreak()) {
		out = append(out, interfaces.NewElement("br", nil))
	} else if node.SoftLineBreak() {
		out = append(out, interfaces.NewText("\n"))
	}
	return out
}

func (c *converter) list(node *gast.List) *interfaces.Node {
	tag := "ul"
	var props map[string]any
	if node.IsOrdered() {
		tag = "ol"
		if node.Start != 1 && node.Start != 0 {
			props = map[string]any{"start": node.Start}
		}
	}
	el := interfaces.NewElement(tag, props)
	el.Children = c.children(node)
	return el
}

func (c *converter) fencedCode(node *gast.FencedCodeBlock) *interfaces.Node {
	language := ""
	if node.Info != nil {
		language = strings.TrimSpace(string(node.Info.Value(c.source)))
		if idx := strings.IndexByte(language, ' '); idx >= 0 {
			language = language[:idx]
		}
	}
	return codeElement(language, c.blockLines(node))
}

// codeElement emits the pre > code shape the renderer highlights: language
// and raw code ride on the pre props so consumers skip re-collecting text.
func codeElement(language, code string) *interfaces.Node {
	codeProps := map[string]any{}
	preProps := map[string]any{"code": code}
	if language != "" {
		preProps["language"] = language
		codeProps["class"] = "language-" + language
	}
	codeNode := interfaces.NewElement("code", codeProps)
	codeNode.AppendChild(interfaces.NewText(code))
	return interfaces.NewElement("pre", preProps, codeNode)
}

func (c *converter) table(node *extast.Table) *interfaces.Node {
	table := interfaces.NewElement("table", nil)
	thead := interfaces.NewElement("thead", nil)
	tbody := interfaces.NewElement("tbody", nil)

	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		switch typed := row.(type) {
		case *extast.TableHeader:
			thead.AppendChild(c.tableRow(typed, true))
		case *extast.TableRow:
			tbody.AppendChild(c.tableRow(typed, false))
		}
	}

	if len(thead.Children) > 0 {
		table.AppendChild(thead)
	}
	if len(tbody.Children) > 0 {
		table.AppendChild(tbody)
	}
	return table
}

func (c *converter) tableRow(row gast.Node, header bool) *interfaces.Node {
	tr := interfaces.NewElement("tr", nil)
	tag := "td"
	if header {
		tag = "th"
	}
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cellEl := interfaces.NewElement(tag, tableCellProps(cell))
		cellEl.Children = c.children(cell)
		tr.AppendChild(cellEl)
	}
	return tr
}

func tableCellProps(cell gast.Node) map[string]any {
	typed, ok := cell.(*extast.TableCell)
	if !ok || typed.Alignment == extast.AlignNone {
		return nil
	}
	return map[string]any{"align": typed.Alignment.String()}
}

// blockComponent assembles a component element: YAML props merge under the
// inline fence attrs, slot separators partition the body, and named slots
// surface as template children.
func (c *converter) blockComponent(node *mdc.BlockComponent) *interfaces.Node {
	children := directChildren(node)
	props, children := c.extractYAMLProps(children, node.Attrs)

	el := interfaces.NewElement(node.Name, props)

	slotName := ""
	slots := map[string]*interfaces.Node{}
	order := []string{}

	appendNodes := func(nodes []*interfaces.Node) {
		if slotName == "" {
			el.Children = append(el.Children, nodes...)
			return
		}
		slot, ok := slots[slotName]
		if !ok {
			slot = interfaces.NewElement("template", map[string]any{"v-slot:" + slotName: ""})
			slots[slotName] = slot
			order = append(order, slotName)
		}
		slot.Children = append(slot.Children, nodes...)
	}

	for _, child := range children {
		if sep, ok := child.(*mdc.SlotSeparator); ok {
			slotName = sep.Name
			continue
		}
		appendNodes(c.node(child))
	}

	for _, name := range order {
		el.AppendChild(slots[name])
	}
	return el
}

func directChildren(node gast.Node) []gast.Node {
	var out []gast.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, child)
	}
	return out
}

// extractYAMLProps consumes a leading `--- ... ---` YAML block from the
// component body. CommonMark parses the closing fence either as a second
// thematic break or by folding the YAML lines into a setext heading, so both
// shapes are recognised.
func (c *converter) extractYAMLProps(children []gast.Node, attrs map[string]any) (map[string]any, []gast.Node) {
	props := cloneProps(attrs)
	if len(children) < 2 {
		return props, children
	}
	if _, ok := children[0].(*gast.ThematicBreak); !ok {
		return props, children
	}

	var (
		lines    []string
		consumed int
	)

	if heading, ok := children[1].(*gast.Heading); ok && heading.Level == 2 {
		lines = append(lines, c.rawLines(heading)...)
		consumed = 2
	} else {
		consumed = 1
		closed := false
		for _, child := range children[1:] {
			consumed++
			if _, ok := child.(*gast.ThematicBreak); ok {
				closed = true
				break
			}
			lines = append(lines, c.rawLines(child)...)
		}
		if !closed {
			return props, children
		}
	}

	if len(lines) == 0 {
		return props, children[consumed:]
	}

	parsed := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &parsed); err != nil {
		return props, children
	}
	for key, value := range parsed {
		if _, exists := props[key]; !exists {
			props[key] = value
		}
	}
	return props, children[consumed:]
}

func (c *converter) rawLines(node gast.Node) []string {
	segments := node.Lines()
	if segments == nil {
		return nil
	}
	out := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		out = append(out, strings.TrimRight(string(segment.Value(c.source)), "\n"))
	}
	return out
}

func (c *converter) blockLines(node gast.Node) string {
	segments := node.Lines()
	if segments == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		sb.Write(segment.Value(c.source))
	}
	return sb.String()
}

func (c *converter) htmlBlockText(node *gast.HTMLBlock) string {
	text := c.blockLines(node)
	if node.HasClosure() {
		text += string(node.ClosureLine.Value(c.source))
	}
	return text
}

func (c *converter) segmentsText(segments *text.Segments) string {
	if segments == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		sb.Write(segment.Value(c.source))
	}
	return sb.String()
}

// rawHTMLNode classifies raw HTML: comments become comment nodes (feeding
// the excerpt divider), everything else stays raw for unsafe rendering.
func rawHTMLNode(raw string) *interfaces.Node {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "<!--") && strings.HasSuffix(trimmed, "-->") {
		value := strings.TrimSpace(trimmed[4 : len(trimmed)-3])
		return &interfaces.Node{Type: interfaces.NodeComment, Value: value}
	}
	return &interfaces.Node{Type: interfaces.NodeElement, Tag: "html", Value: raw}
}

func (c *converter) plainText(node gast.Node) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *gast.Text:
			sb.Write(typed.Segment.Value(c.source))
		case *gast.String:
			sb.Write(typed.Value)
		default:
			sb.WriteString(c.plainText(child))
		}
	}
	return sb.String()
}

// nodeAttributes lifts goldmark node attributes (auto heading IDs mostly)
// into portable props.
func nodeAttributes(node gast.Node) map[string]any {
	attrs := node.Attributes()
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		switch value := attr.Value.(type) {
		case []byte:
			out[string(attr.Name)] = string(value)
		default:
			out[string(attr.Name)] = value
		}
	}
	return out
}

func cloneProps(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
