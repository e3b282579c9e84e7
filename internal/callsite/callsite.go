package callsite

import "capfmt/internal/source"

// FormatSource is the format argument of a call. When Opaque is set the format
// is not a string literal (concat!, a constant, another macro) and Text is empty.
type FormatSource struct {
	Opaque bool
	// Raw marks r"..." literals; Hashes is the number of '#' around them.
	Raw    bool
	Hashes int
	// Text is the literal body between the quotes, as written.
	Text string
	// Span covers the whole literal token; Inner only the body.
	Span  source.Span
	Inner source.Span
}

// Quote renders text as a literal of the same style as f.
func (f FormatSource) Quote(text string) string {
	if !f.Raw {
		return `"` + text + `"`
	}
	hashes := make([]byte, f.Hashes)
	for i := range hashes {
		hashes[i] = '#'
	}
	return "r" + string(hashes) + `"` + text + `"` + string(hashes)
}

// CallSite is one format-family macro invocation.
type CallSite struct {
	// Macro is the macro name without `!` or path (`println`, `panic`, ...).
	Macro   string
	Format  FormatSource
	Args    []Argument
	Scope   Scope
	MSRV    RustVersion
	Edition Edition
	Span    source.Span
}

// LegacyPanicMacros do not capture identifiers before the 2021 edition.
var LegacyPanicMacros = map[string]bool{
	"panic":        true,
	"assert":       true,
	"debug_assert": true,
	"unreachable":  true,
}

// CapturesDisabledByEdition reports whether the macro is a legacy panic-family
// macro in an edition where its format string is not a format_args! string.
func (c *CallSite) CapturesDisabledByEdition() bool {
	return LegacyPanicMacros[c.Macro] && c.Edition != EditionUnknown && c.Edition < Edition2021
}
