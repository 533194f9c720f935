package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-mdc/cmd/content/internal/bootstrap"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		contentDir    = flag.String("content-dir", "content", "Path to the content root")
		pattern       = flag.String("pattern", "*.md", "Glob pattern applied when discovering content files")
		locales       = flag.String("locales", "", "Comma separated list of locales")
		defaultLocale = flag.String("default-locale", "en", "Default locale for documents without one")
		filePath      = flag.String("file", "", "Content file to preview (relative to the content root)")
		renderHTML    = flag.Bool("render-html", true, "Render the document body into HTML")
		emitAST       = flag.Bool("ast", false, "Print the portable body tree as JSON")
		unsafe        = flag.Bool("unsafe", false, "Allow raw HTML through to rendered output")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		Unsafe:        *unsafe,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}
	if module == nil || module.Service == nil {
		log.Fatalf("content service not configured")
	}

	ctx := context.Background()

	doc, err := module.Service.Load(ctx, *filePath, interfaces.LoadOptions{})
	if err != nil {
		log.Fatalf("load content document: %v", err)
	}

	fmt.Fprintf(os.Stdout, "Path: %s\nLocale: %s\nChecksum: %x\n\n", doc.Path, doc.Locale, doc.Checksum)

	if doc.FrontMatter.Raw != nil {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stdout, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	if *emitAST && doc.AST != nil {
		tree, err := json.MarshalIndent(doc.AST, "", "  ")
		if err != nil {
			log.Fatalf("encode body tree: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Body Tree:\n%s\n\n", tree)
	}

	if *renderHTML {
		fmt.Fprintf(os.Stdout, "Rendered HTML:\n%s\n", string(doc.BodyHTML))
	} else {
		fmt.Fprintf(os.Stdout, "Markdown Body:\n%s\n", string(doc.Body))
	}
}
