// Package xmlfmt pretty-prints XML-like text (SVG and generic XML).
//
// Every element, comment and processing instruction lands on its own line,
// indented by nesting depth. Attributes stay on the opening line unless a
// bounded print width is exceeded, in which case they wrap one per line.
// With WhitespaceIgnore, whitespace-only text is dropped and other text is
// collapsed; with WhitespaceStrict, elements holding text are printed as-is.
//
// The package does not touch the filesystem.
package xmlfmt
