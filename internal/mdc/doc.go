// Package mdc extends goldmark with the MDC component dialect: block
// components fenced by colon runs (::alert ... ::), inline components
// (:badge[new]{type="info"}), span attributes ([text]{.class}), and data
// bindings ({{ $doc.title }}). The extension only contributes parsers; the
// resulting nodes are consumed by the portable-AST converter rather than
// goldmark's HTML renderer.
package mdc
