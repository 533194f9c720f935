package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// BuiltInComponents returns the core component catalogue shipped with go-mdc.
func BuiltInComponents() []interfaces.ComponentDefinition {
	return []interfaces.ComponentDefinition{
		youTubeComponent(),
		alertComponent(),
		figureComponent(),
		badgeComponent(),
	}
}

// RegisterBuiltIns installs the builtin catalogue into registry.
func RegisterBuiltIns(registry interfaces.ComponentRegistry) error {
	for _, def := range BuiltInComponents() {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func youTubeComponent() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Tag:         "youtube",
		Description: "Embeds a responsive YouTube iframe player",
		Handler: func(ctx interfaces.RenderContext, node *interfaces.Node, slots map[string]template.HTML) (template.HTML, error) {
			id := stringProp(node, "id")
			if id == "" {
				return "", fmt.Errorf("youtube: id is required")
			}
			src := "https://www.youtube.com/embed/" + template.URLQueryEscaper(id)
			if start := stringProp(node, "start"); start != "" && start != "0" {
				src += "?start=" + template.URLQueryEscaper(start)
			}
			out := fmt.Sprintf(
				`<div class="component component--youtube"><iframe src="%s" title="YouTube video" loading="lazy" allowfullscreen></iframe></div>`,
				template.HTMLEscapeString(src),
			)
			return template.HTML(out), nil
		},
	}
}

func alertComponent() interfaces.ComponentDefinition {
	valid := map[string]struct{}{"info": {}, "success": {}, "warning": {}, "danger": {}}

	return interfaces.ComponentDefinition{
		Tag:         "alert",
		Description: "Displays contextual alert callouts",
		Handler: func(ctx interfaces.RenderContext, node *interfaces.Node, slots map[string]template.HTML) (template.HTML, error) {
			kind := stringProp(node, "type")
			if kind == "" {
				kind = "info"
			}
			if _, ok := valid[kind]; !ok {
				return "", fmt.Errorf("alert: type %q not supported", kind)
			}

			var sb strings.Builder
			sb.WriteString(`<div class="component component--alert component--alert-` + kind + `">`)
			if title, ok := slots["title"]; ok && title != "" {
				sb.WriteString(`<div class="component__title">` + string(title) + `</div>`)
			} else if title := stringProp(node, "title"); title != "" {
				sb.WriteString(`<div class="component__title">` + template.HTMLEscapeString(title) + `</div>`)
			}
			sb.WriteString(`<div class="component__body">` + string(slots["default"]) + `</div>`)
			sb.WriteString(`</div>`)
			return template.HTML(sb.String()), nil
		},
	}
}

func figureComponent() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Tag:         "figure",
		Description: "Renders an image with an optional caption",
		Handler: func(ctx interfaces.RenderContext, node *interfaces.Node, slots map[string]template.HTML) (template.HTML, error) {
			src := stringProp(node, "src")
			if src == "" {
				return "", fmt.Errorf("figure: src is required")
			}

			var sb strings.Builder
			sb.WriteString(`<figure class="component component--figure">`)
			sb.WriteString(`<img src="` + template.HTMLEscapeString(src) + `"`)
			if alt := stringProp(node, "alt"); alt != "" {
				sb.WriteString(` alt="` + template.HTMLEscapeString(alt) + `"`)
			}
			sb.WriteString(` loading="lazy" />`)

			caption := slots["default"]
			if caption == "" {
				if text := stringProp(node, "caption"); text != "" {
					caption = template.HTML(template.HTMLEscapeString(text))
				}
			}
			if caption != "" {
				sb.WriteString(`<figcaption>` + string(caption) + `</figcaption>`)
			}
			sb.WriteString(`</figure>`)
			return template.HTML(sb.String()), nil
		},
	}
}

func badgeComponent() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Tag:         "badge",
		Description: "Inline label for statuses and versions",
		Inline:      true,
		Handler: func(ctx interfaces.RenderContext, node *interfaces.Node, slots map[string]template.HTML) (template.HTML, error) {
			return template.HTML(`<span class="component component--badge">` + string(slots["default"]) + `</span>`), nil
		},
	}
}

func stringProp(node *interfaces.Node, key string) string {
	if node == nil || node.Props == nil {
		return ""
	}
	value, ok := node.Props[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
