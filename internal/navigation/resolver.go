package navigation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

// URLResolver maps a document to the URL its navigation entry links to.
type URLResolver interface {
	Resolve(ctx context.Context, doc *interfaces.Document) (string, error)
}

// PathResolver links navigation entries straight to document paths.
type PathResolver struct{}

func (PathResolver) Resolve(_ context.Context, doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", nil
	}
	return doc.Path, nil
}

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager *urlkit.RouteManager
	// Group names the route group, dotted for nested groups.
	Group string
	// Route is the route built for every document.
	Route string
	// PathParam receives the document path with the leading slash trimmed.
	PathParam string
	// LocaleParam, when set, receives the document locale.
	LocaleParam string
}

// URLKitResolver resolves navigation URLs through a go-urlkit RouteManager,
// for hosts that mount content under routed paths.
type URLKitResolver struct {
	manager     *urlkit.RouteManager
	groupPath   string
	route       string
	pathParam   string
	localeParam string

	mu    sync.RWMutex
	group *urlkit.Group
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.PathParam == "" {
		opts.PathParam = "path"
	}
	return &URLKitResolver{
		manager:     opts.Manager,
		groupPath:   strings.TrimSpace(opts.Group),
		route:       strings.TrimSpace(opts.Route),
		pathParam:   opts.PathParam,
		localeParam: strings.TrimSpace(opts.LocaleParam),
	}
}

// Resolve builds the URL for doc using the configured route.
func (r *URLKitResolver) Resolve(ctx context.Context, doc *interfaces.Document) (string, error) {
	_ = ctx
	if r == nil || r.manager == nil || doc == nil || r.route == "" {
		return "", nil
	}

	group, err := r.resolveGroup()
	if err != nil || group == nil {
		return "", err
	}

	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}

	builder.WithParam(r.pathParam, strings.TrimPrefix(doc.Path, "/"))
	if r.localeParam != "" && doc.Locale != "" {
		builder.WithParam(r.localeParam, doc.Locale)
	}

	return builder.Build()
}

func (r *URLKitResolver) resolveGroup() (*urlkit.Group, error) {
	r.mu.RLock()
	group := r.group
	r.mu.RUnlock()
	if group != nil {
		return group, nil
	}

	parts := strings.Split(r.groupPath, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("navigation: invalid route group path %q", r.groupPath)
	}

	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.group = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("navigation: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("navigation: route group %q not found", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: route group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
