package lints

import (
	"strings"

	"capfmt/internal/diag"
	"capfmt/internal/fix"
	"capfmt/internal/source"
)

var lnName = map[string]string{
	"print":  "println",
	"eprint": "eprintln",
	"write":  "writeln",
}

// withNewline reports print!/eprint!/write! whose format ends in the only
// newline of the string.
func (c *checker) withNewline() {
	site := c.call.Site
	ln, ok := lnName[site.Macro]
	if !ok || c.format == nil || !c.format.EndsWithLiteral() {
		return
	}
	lits := c.format.LiteralText()
	if !strings.HasSuffix(lits[len(lits)-1], "\n") {
		return
	}
	vertical := 0
	for _, l := range lits {
		vertical += strings.Count(l, "\n") + strings.Count(l, "\r")
	}
	if vertical != 1 {
		return
	}

	code := diag.LintPrintWithNewline
	if writeFamily[site.Macro] {
		code = diag.LintWriteWithNewline
	}

	rename := diag.TextEdit{Span: c.call.Name, NewText: ln, OldText: c.text(c.call.Name)}
	var fixes []diag.Fix
	snippet := c.text(site.Format.Span)
	switch {
	case len(lits) == 1 && lits[0] == "\n" && len(c.format.Placeholders()) == 0:
		rm := c.call.FormatElement().Remove
		fixes = append(fixes, fix.MultiEdit("use `"+ln+"!` instead", []diag.TextEdit{
			rename,
			{Span: rm, OldText: c.text(rm)},
		}, fix.Preferred()))
	case !site.Format.Raw && strings.HasSuffix(snippet, `\n"`):
		end := site.Format.Span.End
		nl := source.Span{File: site.Format.Span.File, Start: end - 3, End: end - 1}
		fixes = append(fixes, fix.MultiEdit("use `"+ln+"!` instead", []diag.TextEdit{
			rename,
			{Span: nl, OldText: `\n`},
		}, fix.Preferred()))
	}

	c.report(code, site.Span,
		"using `"+site.Macro+"!()` with a format string that ends in a single newline",
		fixes...,
	).Emit()
}
