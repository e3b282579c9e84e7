package diag

import (
	"testing"

	"capfmt/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/main.rs", []byte("a\nb\n"), 0)
	vendored := fs.Add("/workspace/vendor/dep/lib.rs", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     LintUninlinedFormatArgs,
			Message:  "variables can be used\ndirectly",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendored, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "argument here"},
			},
		},
		{
			Severity: SevError,
			Code:     LintPrintLiteral,
			Message:  "literal with an empty format string",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevWarning,
			Code:     LintUseDebug,
			Message:  "vendored",
			Primary:  source.Span{File: vendored, Start: 0, End: 1},
		},
	}

	expected := "warning LNT1001 src/main.rs:1:1 variables can be used directly\n" +
		"error LNT1002 src/main.rs:2:1 literal with an empty format string\n" +
		"note LNT1001 src/main.rs:2:1 argument here"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestLookupLint(t *testing.T) {
	code, ok := LookupLint("clippy::uninlined_format_args")
	if !ok || code != LintUninlinedFormatArgs {
		t.Fatalf("LookupLint = %v, %v", code, ok)
	}
	if _, ok := LookupLint("never_loop"); ok {
		t.Fatalf("unknown lints must not resolve")
	}
	if got := LintPrintStdout.LintName(); got != "print_stdout" {
		t.Fatalf("LintName = %q", got)
	}
	if n := len(LintCodes()); n != 10 {
		t.Fatalf("LintCodes() returned %d codes", n)
	}
	if got := InlOpaqueSource.ID(); got != "INL2003" {
		t.Fatalf("ID = %q", got)
	}
}
