package frontend

import (
	"capfmt/internal/callsite"
	"capfmt/internal/source"
)

// LintAttr is one lint named in an `allow`/`warn`/`deny`/`forbid`/`expect`
// attribute, as written (`clippy::print_literal`, `clippy::style`).
type LintAttr struct {
	Level string
	Name  string
}

// Context is the item context a call inherits from enclosing attributes.
type Context struct {
	// MSRV is set by `#[clippy::msrv = "..."]`; zero means not configured.
	MSRV  callsite.RustVersion
	Attrs []LintAttr
	// DebugImpl marks code inside `impl Debug for T { ... }`.
	DebugImpl bool
}

// with returns a copy of c with more attributes; c itself is never mutated so
// sibling frames can share the backing slice.
func (c Context) with(attrs []LintAttr) Context {
	if len(attrs) == 0 {
		return c
	}
	merged := make([]LintAttr, 0, len(c.Attrs)+len(attrs))
	merged = append(merged, c.Attrs...)
	merged = append(merged, attrs...)
	c.Attrs = merged
	return c
}

// Element is one top-level comma separated part of a macro invocation,
// including the writer of write! and the condition of assert!.
type Element struct {
	Span source.Span
	// Remove covers the element together with the separator before it, so
	// deleting it keeps the call well formed.
	Remove source.Span
	Text   string
}

// Call is a format-family invocation.
type Call struct {
	Site *callsite.CallSite
	// Name is the span of the macro identifier, without `!`.
	Name source.Span
	// Group covers the delimiters and everything between them.
	Group       source.Span
	Elements    []Element
	FormatIndex int
	Context     Context
}

// FormatElement returns the element holding the format string.
func (c *Call) FormatElement() Element {
	return c.Elements[c.FormatIndex]
}

// ArgElement returns the element of the i-th argument after the format string.
func (c *Call) ArgElement(i int) Element {
	return c.Elements[c.FormatIndex+1+i]
}

// formatArgIndex maps the supported macros onto the position of their format
// string among the top-level elements.
var formatArgIndex = map[string]int{
	"format":          0,
	"format_args":     0,
	"print":           0,
	"println":         0,
	"eprint":          0,
	"eprintln":        0,
	"panic":           0,
	"unreachable":     0,
	"todo":            0,
	"unimplemented":   0,
	"write":           1,
	"writeln":         1,
	"assert":          1,
	"debug_assert":    1,
	"assert_eq":       2,
	"assert_ne":       2,
	"debug_assert_eq": 2,
	"debug_assert_ne": 2,
}

// IsFormatMacro reports whether name is one of the macros the scanner handles.
func IsFormatMacro(name string) bool {
	_, ok := formatArgIndex[name]
	return ok
}
