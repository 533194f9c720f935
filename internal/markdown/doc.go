// Package markdown implements the file-centric content workflows: frontmatter
// extraction, source discovery with path normalization, Markdown parsing into
// the portable AST (including the MDC component dialect), and the import/sync
// pipeline that keeps the document store aligned with a source tree.
package markdown
