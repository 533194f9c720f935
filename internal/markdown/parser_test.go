package markdown

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

func parseBody(t *testing.T, source string) *interfaces.ParseResult {
	t.Helper()
	parser := NewParser(ParserConfig{})
	result, err := parser.Parse([]byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return result
}

func findElements(root *interfaces.Node, tag string) []*interfaces.Node {
	var out []*interfaces.Node
	root.Walk(func(node *interfaces.Node) bool {
		if node.Type == interfaces.NodeElement && node.Tag == tag {
			out = append(out, node)
		}
		return true
	})
	return out
}

func firstElement(t *testing.T, root *interfaces.Node, tag string) *interfaces.Node {
	t.Helper()
	found := findElements(root, tag)
	if len(found) == 0 {
		t.Fatalf("expected a %q element", tag)
	}
	return found[0]
}

func collectText(node *interfaces.Node) string {
	var sb strings.Builder
	node.Walk(func(n *interfaces.Node) bool {
		if n.Type == interfaces.NodeText {
			sb.WriteString(n.Value)
		}
		return true
	})
	return sb.String()
}

func TestParseBasicBlocks(t *testing.T) {
	result := parseBody(t, "# Title\n\nA paragraph with **bold** and *italic*.\n\n> quoted\n")

	h1 := firstElement(t, result.AST, "h1")
	if collectText(h1) != "Title" {
		t.Fatalf("unexpected heading text: %q", collectText(h1))
	}
	if h1.Props["id"] != "title" {
		t.Fatalf("expected auto heading id, got %v", h1.Props)
	}
	if got := firstElement(t, result.AST, "strong"); collectText(got) != "bold" {
		t.Fatalf("unexpected strong text: %q", collectText(got))
	}
	if got := firstElement(t, result.AST, "em"); collectText(got) != "italic" {
		t.Fatalf("unexpected em text: %q", collectText(got))
	}
	firstElement(t, result.AST, "blockquote")
}

func TestParseLists(t *testing.T) {
	result := parseBody(t, "1. one\n2. two\n\n- alpha\n- beta\n")

	ol := firstElement(t, result.AST, "ol")
	if len(findElements(ol, "li")) != 2 {
		t.Fatalf("expected two ordered items")
	}
	ul := firstElement(t, result.AST, "ul")
	if len(findElements(ul, "li")) != 2 {
		t.Fatalf("expected two unordered items")
	}
}

func TestParseOrderedListStart(t *testing.T) {
	result := parseBody(t, "3. three\n4. four\n")

	ol := firstElement(t, result.AST, "ol")
	if ol.Props["start"] != 3 {
		t.Fatalf("expected start offset, got %v", ol.Props)
	}
}

func TestParseFencedCode(t *testing.T) {
	result := parseBody(t, "```go\nfmt.Println(\"hi\")\n```\n")

	pre := firstElement(t, result.AST, "pre")
	if pre.Props["language"] != "go" {
		t.Fatalf("expected language prop, got %v", pre.Props)
	}
	if pre.Props["code"] != "fmt.Println(\"hi\")\n" {
		t.Fatalf("expected raw code prop, got %q", pre.Props["code"])
	}
	code := firstElement(t, pre, "code")
	if code.Props["class"] != "language-go" {
		t.Fatalf("expected language class, got %v", code.Props)
	}
	if collectText(code) != "fmt.Println(\"hi\")\n" {
		t.Fatalf("unexpected code text: %q", collectText(code))
	}
}

func TestParseLinksAndImages(t *testing.T) {
	result := parseBody(t, "A [link](https://example.com \"Example\") and ![pic](/img.png).\n")

	a := firstElement(t, result.AST, "a")
	if a.Props["href"] != "https://example.com" || a.Props["title"] != "Example" {
		t.Fatalf("unexpected link props: %v", a.Props)
	}
	img := firstElement(t, result.AST, "img")
	if img.Props["src"] != "/img.png" || img.Props["alt"] != "pic" {
		t.Fatalf("unexpected image props: %v", img.Props)
	}
}

func TestParseGFMTableAndStrikethrough(t *testing.T) {
	source := "| Name | Count |\n| :--- | ----: |\n| a | 1 |\n\n~~gone~~\n"
	result := parseBody(t, source)

	table := firstElement(t, result.AST, "table")
	if len(findElements(table, "th")) != 2 {
		t.Fatalf("expected two header cells")
	}
	tds := findElements(table, "td")
	if len(tds) != 2 {
		t.Fatalf("expected two body cells")
	}
	firstElement(t, result.AST, "del")
}

func TestParseTaskList(t *testing.T) {
	result := parseBody(t, "- [x] done\n- [ ] todo\n")

	inputs := findElements(result.AST, "input")
	if len(inputs) != 2 {
		t.Fatalf("expected two checkboxes, got %d", len(inputs))
	}
	if inputs[0].Props["checked"] != true {
		t.Fatalf("expected first checkbox checked, got %v", inputs[0].Props)
	}
	if _, ok := inputs[1].Props["checked"]; ok {
		t.Fatalf("expected second checkbox unchecked, got %v", inputs[1].Props)
	}
}

func TestParseExcerptDivider(t *testing.T) {
	result := parseBody(t, "Intro paragraph.\n\n<!--more-->\n\nThe rest.\n")

	if result.Excerpt == nil {
		t.Fatal("expected excerpt")
	}
	if got := collectText(result.Excerpt); !strings.Contains(got, "Intro paragraph.") {
		t.Fatalf("unexpected excerpt text: %q", got)
	}
	if got := collectText(result.AST); strings.Contains(got, "more") {
		t.Fatalf("expected divider removed from body, got %q", got)
	}
}

func TestParseTOC(t *testing.T) {
	source := "# Doc Title\n\n## Section One\n\n### Nested\n\n## Section Two\n"
	result := parseBody(t, source)

	if result.TOC == nil {
		t.Fatal("expected toc")
	}
	if result.TOC.Title != "Doc Title" {
		t.Fatalf("unexpected toc title: %q", result.TOC.Title)
	}
	if len(result.TOC.Links) != 2 {
		t.Fatalf("expected two sections, got %d", len(result.TOC.Links))
	}
	if len(result.TOC.Links[0].Children) != 1 {
		t.Fatalf("expected nested heading under first section")
	}
	if result.TOC.Links[0].ID == "" {
		t.Fatal("expected anchor ids on toc links")
	}
}

func TestParseBlockComponent(t *testing.T) {
	source := "::alert{type=\"warning\"}\nWatch out.\n::\n"
	result := parseBody(t, source)

	alert := firstElement(t, result.AST, "alert")
	if alert.Props["type"] != "warning" {
		t.Fatalf("unexpected props: %v", alert.Props)
	}
	if !strings.Contains(collectText(alert), "Watch out.") {
		t.Fatalf("unexpected body: %q", collectText(alert))
	}
}

func TestParseBlockComponentYAMLProps(t *testing.T) {
	source := "::chart\n---\ntype: bar\nitems:\n  - 1\n  - 2\n---\nBody.\n::\n"
	result := parseBody(t, source)

	chart := firstElement(t, result.AST, "chart")
	if chart.Props["type"] != "bar" {
		t.Fatalf("expected yaml prop, got %v", chart.Props)
	}
	items, ok := chart.Props["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected items list, got %v", chart.Props["items"])
	}
	if !strings.Contains(collectText(chart), "Body.") {
		t.Fatalf("expected body kept after yaml block, got %q", collectText(chart))
	}
	if strings.Contains(collectText(chart), "type: bar") {
		t.Fatal("expected yaml lines removed from body")
	}
}

func TestParseBlockComponentFenceAttrsWinOverYAML(t *testing.T) {
	source := "::chart{type=\"line\"}\n---\ntype: bar\n---\n::\n"
	result := parseBody(t, source)

	chart := firstElement(t, result.AST, "chart")
	if chart.Props["type"] != "line" {
		t.Fatalf("expected fence attrs to win, got %v", chart.Props)
	}
}

func TestParseBlockComponentSlots(t *testing.T) {
	source := "::card\nDefault content.\n#title\nThe Title\n#footer\nThe Footer\n::\n"
	result := parseBody(t, source)

	card := firstElement(t, result.AST, "card")
	templates := findElements(card, "template")
	if len(templates) != 2 {
		t.Fatalf("expected two slot templates, got %d", len(templates))
	}
	if _, ok := templates[0].Props["v-slot:title"]; !ok {
		t.Fatalf("expected v-slot:title, got %v", templates[0].Props)
	}
	if !strings.Contains(collectText(templates[0]), "The Title") {
		t.Fatalf("unexpected slot body: %q", collectText(templates[0]))
	}
	if _, ok := templates[1].Props["v-slot:footer"]; !ok {
		t.Fatalf("expected v-slot:footer, got %v", templates[1].Props)
	}

	// Default content stays directly under the component.
	var direct string
	for _, child := range card.Children {
		if child.Tag != "template" {
			direct += collectText(child)
		}
	}
	if !strings.Contains(direct, "Default content.") {
		t.Fatalf("expected default slot content, got %q", direct)
	}
}

func TestParseInlineComponentAndSpan(t *testing.T) {
	source := "Press :kbd[Enter]{.key} to [continue]{.hint} now.\n"
	result := parseBody(t, source)

	kbd := firstElement(t, result.AST, "kbd")
	if collectText(kbd) != "Enter" || kbd.Props["class"] != "key" {
		t.Fatalf("unexpected inline component: %+v", kbd)
	}
	spans := findElements(result.AST, "span")
	if len(spans) != 1 || collectText(spans[0]) != "continue" || spans[0].Props["class"] != "hint" {
		t.Fatalf("unexpected text span: %+v", spans)
	}
}

func TestParseAttributeRunMergesIntoSibling(t *testing.T) {
	result := parseBody(t, "**Bold**{.highlight} rest.\n")

	strong := firstElement(t, result.AST, "strong")
	if strong.Props["class"] != "highlight" {
		t.Fatalf("expected class merged onto strong, got %v", strong.Props)
	}
}

func TestParseBinding(t *testing.T) {
	result := parseBody(t, "By {{ $doc.author }}.\n")

	binding := firstElement(t, result.AST, "binding")
	if binding.Props["value"] != "$doc.author" {
		t.Fatalf("unexpected binding: %v", binding.Props)
	}
}

func TestParseRawHTMLBecomesHTMLNode(t *testing.T) {
	result := parseBody(t, "<div class=\"x\">raw</div>\n")

	html := findElements(result.AST, "html")
	if len(html) == 0 {
		t.Fatal("expected raw html node")
	}
	if !strings.Contains(html[0].Value, "<div") {
		t.Fatalf("expected raw markup preserved, got %q", html[0].Value)
	}
}

func TestParseHardWrapsOption(t *testing.T) {
	parser := NewParser(ParserConfig{})

	soft, err := parser.ParseWithOptions([]byte("line one\nline two\n"), interfaces.ParseOptions{MDC: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findElements(soft.AST, "br")) != 0 {
		t.Fatal("expected soft break without br")
	}

	hard, err := parser.ParseWithOptions([]byte("line one\nline two\n"), interfaces.ParseOptions{MDC: true, HardWraps: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findElements(hard.AST, "br")) != 1 {
		t.Fatal("expected br under hard wraps")
	}
}

func TestParseUnknownExtension(t *testing.T) {
	parser := NewParser(ParserConfig{})
	if _, err := parser.ParseWithOptions([]byte("x"), interfaces.ParseOptions{Extensions: []string{"nope"}}); err == nil {
		t.Fatal("expected unknown extension error")
	}
}

func TestParseMDCDisabled(t *testing.T) {
	parser := NewParser(ParserConfig{})
	result, err := parser.ParseWithOptions([]byte("::alert\nBody.\n::\n"), interfaces.ParseOptions{MDC: false})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findElements(result.AST, "alert")) != 0 {
		t.Fatal("expected component syntax ignored when dialect is off")
	}
}

func TestASTRoundTripsThroughJSON(t *testing.T) {
	source := "# Title\n\n::note{.wide}\nText with :icon[star] inside.\n::\n"
	result := parseBody(t, source)

	encoded, err := json.Marshal(result.AST)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded interfaces.Node
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != interfaces.NodeRoot {
		t.Fatalf("expected root node, got %s", decoded.Type)
	}
	if len(findElements(&decoded, "note")) != 1 {
		t.Fatal("expected component to survive the round trip")
	}
	reencoded, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(encoded) != string(reencoded) {
		t.Fatal("expected stable json encoding")
	}
}
