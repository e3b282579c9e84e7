package lints

import (
	"capfmt/internal/diag"
	"capfmt/internal/eligibility"
	"capfmt/internal/fix"
	"capfmt/internal/inliner"
)

// uninlined runs the inliner and turns a rewrite into a fix that replaces the
// format literal and deletes the dropped arguments.
func (c *checker) uninlined() {
	site := c.call.Site
	out, err := inliner.Inline(site, c.cfg.Inliner)
	c.format = out.Format
	if err != nil {
		c.note(err)
		return
	}
	if !out.Changed() {
		if c.cfg.WithNotes {
			c.unchangedNote(out.Reason)
		}
		return
	}
	c.stats.Rewritable++

	edits := make([]diag.TextEdit, 0, len(out.Removed)+1)
	edits = append(edits, diag.TextEdit{
		Span:    site.Format.Span,
		NewText: site.Format.Quote(out.Literal),
		OldText: c.text(site.Format.Span),
	})
	for _, k := range out.Removed {
		rm := c.call.ArgElement(k).Remove
		edits = append(edits, diag.TextEdit{Span: rm, OldText: c.text(rm)})
	}

	c.report(diag.LintUninlinedFormatArgs, site.Span,
		"variables can be used directly in the `format!` string",
		fix.MultiEdit("change this to", edits, fix.Preferred()),
	).Emit()
}

func (c *checker) unchangedNote(reason eligibility.Reason) {
	site := c.call.Site
	switch reason {
	case eligibility.ReasonOpaque:
		switch {
		case len(site.Args) == 0:
		case site.Format.Opaque:
			diag.ReportInfo(c.r, diag.InlOpaqueSource, site.Format.Span, "`"+site.Macro+"!` format is not a string literal").Emit()
		default:
			diag.ReportInfo(c.r, diag.InlOpaqueSource, site.Format.Span, "`"+site.Macro+"!` format escapes a brace").Emit()
		}
	case eligibility.ReasonBelowMinimumVersion:
		diag.ReportInfo(c.r, diag.InlBelowMinimumVersion, site.Span,
			"arguments could be inlined from Rust 1.58, msrv is "+site.MSRV.String()).Emit()
	}
}
