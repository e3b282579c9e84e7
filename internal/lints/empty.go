package lints

import (
	"capfmt/internal/diag"
	"capfmt/internal/fix"
)

// emptyString reports println!("") and writeln!(w, "").
func (c *checker) emptyString() {
	site := c.call.Site
	var code diag.Code
	switch site.Macro {
	case "println", "eprintln":
		code = diag.LintPrintlnEmptyString
	case "writeln":
		code = diag.LintWritelnEmptyString
	default:
		return
	}
	if site.Format.Opaque || site.Format.Text != "" || len(site.Args) > 0 {
		return
	}
	rm := c.call.FormatElement().Remove
	c.report(code, site.Span, "empty string literal in `"+site.Macro+"!`",
		fix.DeleteSpan("remove the empty string", rm, c.text(rm), fix.Preferred()),
	).Emit()
}
