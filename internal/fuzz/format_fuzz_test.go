package fuzztests

import (
	"strconv"
	"testing"

	"capfmt/internal/callsite"
	"capfmt/internal/fmtstr"
	"capfmt/internal/inliner"
	"capfmt/internal/testkit"
)

func FuzzFormatString(f *testing.F) {
	addFormatSeeds(f)
	f.Fuzz(func(t *testing.T, format string, raw bool, _ uint8) {
		fs, err := fmtstr.Parse(format, raw)
		if err != nil {
			return
		}
		if err := testkit.CheckFormatInvariants(fs); err != nil {
			t.Fatalf("%v\nformat: %q", err, format)
		}
	})
}

// FuzzInlineFixedPoint checks that a rewritten call has nothing left to inline.
func FuzzInlineFixedPoint(f *testing.F) {
	addFormatSeeds(f)
	f.Fuzz(func(t *testing.T, format string, raw bool, argc uint8) {
		cs := &callsite.CallSite{
			Macro:   "format",
			Format:  callsite.FormatSource{Raw: raw, Text: format},
			Scope:   callsite.AnyName{},
			Edition: callsite.DefaultEdition,
		}
		for i := range int(argc % 8) {
			cs.Args = append(cs.Args, callsite.Argument{Text: "a" + strconv.Itoa(i), Kind: callsite.ExprIdent})
		}
		out, err := inliner.Inline(cs, inliner.DefaultOptions())
		if err != nil {
			if out.Changed() || out.Literal != format {
				t.Fatalf("failed analysis must leave %q unchanged, got %q", format, out.Literal)
			}
			return
		}
		if !out.Changed() {
			if out.Literal != format || len(out.Args) != len(cs.Args) {
				t.Fatalf("unchanged outcome differs from input %q", format)
			}
			return
		}
		next := *cs
		next.Format.Text = out.Literal
		next.Args = out.Args
		again, err := inliner.Inline(&next, inliner.DefaultOptions())
		if err != nil {
			t.Fatalf("rewritten %q no longer analyzes: %v", out.Literal, err)
		}
		if again.Changed() {
			t.Fatalf("not a fixed point: %q -> %q -> %q", format, out.Literal, again.Literal)
		}
	})
}
