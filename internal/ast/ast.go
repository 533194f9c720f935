// Package ast provides helpers for the portable document AST: plain-text
// extraction, excerpt splitting, and table-of-contents assembly.
package ast

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// ExcerptDivider is the comment marker that splits a body into excerpt and
// remainder.
const ExcerptDivider = "more"

// Text collects the concatenated text content of the node tree.
func Text(node *interfaces.Node) string {
	var sb strings.Builder
	writeText(&sb, node)
	return sb.String()
}

func writeText(sb *strings.Builder, node *interfaces.Node) {
	if node == nil {
		return
	}
	if node.Type == interfaces.NodeText {
		sb.WriteString(node.Value)
		return
	}
	for _, child := range node.Children {
		writeText(sb, child)
	}
}

// SplitExcerpt removes the excerpt divider comment from root and returns a
// copy of the nodes that preceded it. The second return reports whether a
// divider was found. The root is mutated in place to drop the divider.
func SplitExcerpt(root *interfaces.Node) (*interfaces.Node, bool) {
	if root == nil {
		return nil, false
	}

	idx := -1
	for i, child := range root.Children {
		if isDivider(child) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	excerpt := &interfaces.Node{
		Type:     interfaces.NodeRoot,
		Children: append([]*interfaces.Node(nil), root.Children[:idx]...),
	}
	root.Children = append(root.Children[:idx], root.Children[idx+1:]...)
	return excerpt, true
}

func isDivider(node *interfaces.Node) bool {
	if node == nil || node.Type != interfaces.NodeComment {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(node.Value), ExcerptDivider)
}

// Summarize produces a description candidate from the node tree: the plain
// text of the first paragraph, cut at a word boundary no later than limit
// runes. A non-positive limit disables the cut.
func Summarize(root *interfaces.Node, limit int) string {
	text := firstParagraphText(root)
	if text == "" {
		text = strings.TrimSpace(Text(root))
	}
	text = collapseWhitespace(text)
	if limit <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return strings.TrimSpace(string(runes[:cut]))
}

func firstParagraphText(root *interfaces.Node) string {
	if root == nil {
		return ""
	}
	for _, child := range root.Children {
		if child.Type == interfaces.NodeElement && child.Tag == "p" {
			return strings.TrimSpace(Text(child))
		}
	}
	return ""
}

func collapseWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// FirstHeading returns the text of the first heading at or above the given
// level (h1 when level is 1). Used for title fallbacks.
func FirstHeading(root *interfaces.Node, level int) string {
	if root == nil {
		return ""
	}
	tag := headingTag(level)
	var found string
	root.Walk(func(node *interfaces.Node) bool {
		if found != "" {
			return false
		}
		if node.Type == interfaces.NodeElement && node.Tag == tag {
			found = strings.TrimSpace(Text(node))
			return false
		}
		return true
	})
	return found
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	case 6:
		return "h6"
	default:
		return "h1"
	}
}
