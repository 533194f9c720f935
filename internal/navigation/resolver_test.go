package navigation

import (
	"context"
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

func newRouteManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"content": "/content/:path",
					"article": "/:locale/articles/:path",
				},
			},
		},
	})
}

func TestPathResolver(t *testing.T) {
	resolver := PathResolver{}

	url, err := resolver.Resolve(context.Background(), &interfaces.Document{Path: "/docs/setup"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "/docs/setup" {
		t.Fatalf("expected document path, got %q", url)
	}

	url, err = resolver.Resolve(context.Background(), nil)
	if err != nil || url != "" {
		t.Fatalf("expected nil document resolved empty, got %q err=%v", url, err)
	}
}

func TestURLKitResolver(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager: newRouteManager(),
		Group:   "frontend",
		Route:   "content",
	})

	url, err := resolver.Resolve(context.Background(), &interfaces.Document{Path: "/intro", Locale: "en"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(url, "/content/intro") {
		t.Fatalf("expected routed url, got %q", url)
	}
}

func TestURLKitResolverLocaleParam(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:     newRouteManager(),
		Group:       "frontend",
		Route:       "article",
		LocaleParam: "locale",
	})

	url, err := resolver.Resolve(context.Background(), &interfaces.Document{Path: "/intro", Locale: "es"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(url, "/es/articles/intro") {
		t.Fatalf("expected locale in url, got %q", url)
	}
}

func TestURLKitResolverUnknownGroup(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager: newRouteManager(),
		Group:   "missing",
		Route:   "content",
	})

	if _, err := resolver.Resolve(context.Background(), &interfaces.Document{Path: "/intro"}); err == nil {
		t.Fatal("expected unknown group error")
	}
}

func TestURLKitResolverMisconfigured(t *testing.T) {
	// nil manager and empty route resolve empty instead of failing so
	// navigation still builds with path links
	resolver := NewURLKitResolver(URLKitResolverOptions{})
	url, err := resolver.Resolve(context.Background(), &interfaces.Document{Path: "/intro"})
	if err != nil || url != "" {
		t.Fatalf("expected silent empty resolution, got %q err=%v", url, err)
	}
}
