package markdown

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatterYAML(t *testing.T) {
	source := []byte(`---
title: First Post
description: An opening post.
slug: first
layout: article
tags: [go, content]
date: 2024-03-01T00:00:00Z
draft: true
category: news
---
# Body

Hello.
`)

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}

	if fm.Title != "First Post" {
		t.Fatalf("expected title, got %q", fm.Title)
	}
	if fm.Description != "An opening post." {
		t.Fatalf("expected description, got %q", fm.Description)
	}
	if fm.Slug != "first" || fm.Layout != "article" {
		t.Fatalf("unexpected slug/layout: %q %q", fm.Slug, fm.Layout)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "go" {
		t.Fatalf("unexpected tags: %v", fm.Tags)
	}
	if !fm.Draft {
		t.Fatal("expected draft flag")
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !fm.Date.Equal(want) {
		t.Fatalf("unexpected date: %v", fm.Date)
	}
	if fm.Custom["category"] != "news" {
		t.Fatalf("expected custom key in Custom, got %v", fm.Custom)
	}
	if fm.Raw["category"] != "news" || fm.Raw["title"] != "First Post" {
		t.Fatalf("expected raw map to merge known and custom keys, got %v", fm.Raw)
	}
	if !strings.Contains(string(body), "# Body") || strings.Contains(string(body), "---") {
		t.Fatalf("expected body without delimiters, got %q", body)
	}
}

func TestParseFrontMatterTOML(t *testing.T) {
	source := []byte(`+++
title = "TOML Post"
draft = false
+++
Body text.
`)

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if fm.Title != "TOML Post" {
		t.Fatalf("expected TOML title, got %q", fm.Title)
	}
	if strings.TrimSpace(string(body)) != "Body text." {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestParseFrontMatterAbsent(t *testing.T) {
	source := []byte("Just a body.\n")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if fm.Title != "" || len(fm.Custom) != 0 {
		t.Fatalf("expected empty frontmatter, got %+v", fm)
	}
	if string(body) != "Just a body.\n" {
		t.Fatalf("expected body unchanged, got %q", body)
	}
}

func TestParseFrontMatterNavigationFlag(t *testing.T) {
	source := []byte(`---
title: Hidden
navigation: false
---
Body.
`)

	fm, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if fm.Navigation == nil || *fm.Navigation {
		t.Fatalf("expected navigation disabled, got %v", fm.Navigation)
	}
}

func TestParseFrontMatterNavigationMapKeepsVisibility(t *testing.T) {
	source := []byte(`---
title: Custom Nav
navigation:
  icon: rocket
---
Body.
`)

	fm, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if fm.Navigation != nil {
		t.Fatalf("expected map navigation to keep default visibility, got %v", *fm.Navigation)
	}
	if _, ok := fm.Raw["navigation"]; !ok {
		t.Fatal("expected navigation metadata retained in raw map")
	}
}
