package ast

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

const (
	// DefaultTOCDepth bounds heading levels included in the table of
	// contents (2 means h2 and h3).
	DefaultTOCDepth = 2
	// DefaultTOCSearchDepth bounds how deep into nested elements headings
	// are searched.
	DefaultTOCSearchDepth = 2
)

// BuildTOC assembles a table of contents from heading elements in the tree.
// Headings from h2 down to h(1+depth) are included; title is taken from the
// first h1 when present.
func BuildTOC(root *interfaces.Node, depth, searchDepth int) *interfaces.TOC {
	if depth <= 0 {
		depth = DefaultTOCDepth
	}
	if searchDepth <= 0 {
		searchDepth = DefaultTOCSearchDepth
	}

	toc := &interfaces.TOC{
		Title:       FirstHeading(root, 1),
		Depth:       depth,
		SearchDepth: searchDepth,
	}

	flat := collectHeadings(root, depth, searchDepth, 0)
	toc.Links = nestLinks(flat)
	return toc
}

type flatHeading struct {
	link  *interfaces.TOCLink
	level int
}

func collectHeadings(node *interfaces.Node, depth, searchDepth, currentDepth int) []flatHeading {
	if node == nil || currentDepth > searchDepth {
		return nil
	}

	var out []flatHeading
	for _, child := range node.Children {
		if child.Type != interfaces.NodeElement {
			continue
		}
		if level, ok := headingLevel(child.Tag); ok {
			if level >= 2 && level <= depth+1 {
				out = append(out, flatHeading{
					link: &interfaces.TOCLink{
						ID:    headingID(child),
						Text:  strings.TrimSpace(Text(child)),
						Depth: level,
					},
					level: level,
				})
			}
			continue
		}
		out = append(out, collectHeadings(child, depth, searchDepth, currentDepth+1)...)
	}
	return out
}

func nestLinks(flat []flatHeading) []*interfaces.TOCLink {
	var (
		roots []*interfaces.TOCLink
		stack []flatHeading
	)

	for _, heading := range flat {
		for len(stack) > 0 && stack[len(stack)-1].level >= heading.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, heading.link)
		} else {
			parent := stack[len(stack)-1].link
			parent.Children = append(parent.Children, heading.link)
		}
		stack = append(stack, heading)
	}
	return roots
}

func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0, false
	}
	level := int(tag[1] - '0')
	if level < 1 || level > 6 {
		return 0, false
	}
	return level, true
}

func headingID(node *interfaces.Node) string {
	if node == nil || node.Props == nil {
		return ""
	}
	if id, ok := node.Props["id"]; ok {
		return fmt.Sprint(id)
	}
	return ""
}
