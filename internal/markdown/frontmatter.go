package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. YAML (---) and TOML (+++) delimiters are both
// accepted. It returns the structured frontmatter, the Markdown body without
// delimiters, and any error encountered. A file without frontmatter yields
// empty metadata and the full body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title" toml:"title"`
	Description string         `yaml:"description" toml:"description"`
	Slug        string         `yaml:"slug" toml:"slug"`
	Layout      string         `yaml:"layout" toml:"layout"`
	Tags        []string       `yaml:"tags" toml:"tags"`
	Date        time.Time      `yaml:"date" toml:"date"`
	Draft       bool           `yaml:"draft" toml:"draft"`
	Custom      map[string]any `yaml:",inline" toml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Layout != "" {
		raw["layout"] = env.Layout
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	raw["draft"] = env.Draft

	fm := interfaces.FrontMatter{
		Title:       env.Title,
		Description: env.Description,
		Slug:        env.Slug,
		Layout:      env.Layout,
		Tags:        append([]string(nil), env.Tags...),
		Date:        env.Date,
		Draft:       env.Draft,
		Custom:      cloneMap(env.Custom),
		Raw:         raw,
	}
	fm.Navigation = navigationFlag(env.Custom)
	return fm
}

// navigationFlag interprets the optional navigation frontmatter key. A bare
// boolean toggles visibility; map values (custom nav metadata) keep the
// document visible and remain available through Raw.
func navigationFlag(custom map[string]any) *bool {
	value, ok := custom["navigation"]
	if !ok {
		return nil
	}
	if flag, ok := value.(bool); ok {
		return &flag
	}
	return nil
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
