package lints

import "capfmt/internal/diag"

// useDebug reports Debug placeholders outside `impl Debug` blocks.
func (c *checker) useDebug() {
	if c.format == nil || c.call.Context.DebugImpl {
		return
	}
	for _, ph := range c.format.Placeholders() {
		if ph.IsDebug() {
			c.report(diag.LintUseDebug, c.span(ph.Range), "use of `Debug`-based formatting").Emit()
		}
	}
}

// stdio reports printing to stdout or stderr. build.rs talks to cargo through
// stdout, so it is exempt from print_stdout.
func (c *checker) stdio() {
	site := c.call.Site
	switch site.Macro {
	case "print", "println":
		if isBuildScript(c.file) {
			return
		}
		c.report(diag.LintPrintStdout, site.Span, "use of `"+site.Macro+"!`").Emit()
	case "eprint", "eprintln":
		c.report(diag.LintPrintStderr, site.Span, "use of `"+site.Macro+"!`").Emit()
	}
}
