package interfaces

// NodeType enumerates the node kinds that appear in a document body AST.
type NodeType string

const (
	NodeRoot    NodeType = "root"
	NodeElement NodeType = "element"
	NodeText    NodeType = "text"
	NodeComment NodeType = "comment"
)

// Node is the portable AST representation of parsed document content. The
// shape is intentionally minimal and JSON round-trippable so hosts can ship
// document bodies to other runtimes without re-parsing Markdown.
type Node struct {
	Type     NodeType       `json:"type"`
	Tag      string         `json:"tag,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Node        `json:"children,omitempty"`
	Value    string         `json:"value,omitempty"`
}

// NewElement builds an element node with the supplied tag.
func NewElement(tag string, props map[string]any, children ...*Node) *Node {
	return &Node{
		Type:     NodeElement,
		Tag:      tag,
		Props:    props,
		Children: children,
	}
}

// NewText builds a text node.
func NewText(value string) *Node {
	return &Node{Type: NodeText, Value: value}
}

// AppendChild attaches child to n, ignoring nil receivers and children.
func (n *Node) AppendChild(child *Node) {
	if n == nil || child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first. Returning false from fn
// prunes the subtree below the current node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || fn == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// TOC captures the table of contents extracted from a document body.
type TOC struct {
	Title       string     `json:"title,omitempty"`
	Depth       int        `json:"depth"`
	SearchDepth int        `json:"searchDepth"`
	Links       []*TOCLink `json:"links,omitempty"`
}

// TOCLink represents one heading entry in the table of contents.
type TOCLink struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	Depth    int        `json:"depth"`
	Children []*TOCLink `json:"children,omitempty"`
}
