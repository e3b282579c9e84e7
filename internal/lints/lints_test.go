package lints

import (
	"errors"
	"testing"

	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/fix"
	"capfmt/internal/frontend"
	"capfmt/internal/source"
)

func check(t *testing.T, path, src string, cfg Config) (*source.FileSet, []*diag.Diagnostic, Stats) {
	t.Helper()
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/"+path, []byte(src))
	bag := diag.NewBag(100)
	r := diag.BagReporter{Bag: bag}
	res := frontend.Scan(fs.Get(id), frontend.Options{Reporter: r, Edition: callsite.Edition2021})
	st := Check(res, cfg, r)
	return fs, bag.Items(), st
}

// fixAll applies every fix and re-checks until nothing is left to apply.
func fixAll(t *testing.T, src string, cfg Config) string {
	t.Helper()
	for pass := 0; pass < 5; pass++ {
		fs, diags, _ := check(t, "src/main.rs", src, cfg)
		res, err := fix.Apply(fs, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
		if errors.Is(err, fix.ErrNoFixes) {
			return src
		}
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		src = string(res.FileChanges[0].Content)
	}
	t.Fatalf("fixes did not converge: %s", src)
	return ""
}

func TestFixes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline", `println!("val='{}'", local_i32);`, `println!("val='{local_i32}'");`},
		{"method call", `println!("{}", local_opt.unwrap());`, `println!("{}", local_opt.unwrap());`},
		{"precision star", `println!("Hello {} is {:.*}", "x", 5, local_f64);`, `println!("Hello x is {local_f64:.*}", 5);`},
		{"write", `write!(f, "{}", x)?;`, `write!(f, "{x}")?;`},
		{"repeated", `println!("{0} {0:?}", x);`, `println!("{x} {x:?}");`},
		{"panic", `panic!("{}", x);`, `panic!("{x}");`},
		{"trailing newline", `print!("hello {}\n", name);`, `println!("hello {name}");`},
		{"only newline", `print!("\n");`, `println!();`},
		{"write only newline", `write!(w, "\n");`, `writeln!(w);`},
		{"two newlines", `print!("a\nb\n");`, `print!("a\nb\n");`},
		{"empty println", `println!("");`, `println!();`},
		{"empty writeln", `writeln!(w, "");`, `writeln!(w);`},
		{"literals", `println!("{} {}", "a", 'b');`, `println!("a b");`},
		{"char quote", `println!("{}", '"');`, `println!("\"");`},
		{"raw format", `println!(r"{}", "a\\b");`, `println!(r"a\b");`},
		{"raw format with quote", `println!(r#"{}"#, "a\"b");`, `println!(r#"{}"#, "a\"b");`},
		{"raw literal", `println!("{}", r"C:\dir");`, `println!("C:\\dir");`},
		{"braces", `println!("{}", "{x}");`, `println!("{{x}}");`},
		{"later index", `println!("{} {1}", "a", b.c);`, `println!("{} {1}", "a", b.c);`},
		{"msrv", "#[clippy::msrv = \"1.57\"]\nfn f() { println!(\"{}\", x); }", "#[clippy::msrv = \"1.57\"]\nfn f() { println!(\"{}\", x); }"},
		{"allowed", "#[allow(clippy::uninlined_format_args)]\nfn f() { println!(\"{}\", x); }", "#[allow(clippy::uninlined_format_args)]\nfn f() { println!(\"{}\", x); }"},
		{"group allowed", "#![allow(clippy::style)]\nfn f() { println!(\"{}\\n\", x); }", "#![allow(clippy::style)]\nfn f() { println!(\"{}\\n\", x); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixAll(t, tt.src, DefaultConfig()); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestGoldenDiagnostics(t *testing.T) {
	src := `fn main() {
    println!("{:?}", v);
    eprint!("x");
}
`
	cfg := DefaultConfig()
	cfg.Levels[diag.LintUseDebug] = Warn
	cfg.Levels[diag.LintPrintStdout] = Warn
	cfg.Levels[diag.LintPrintStderr] = Deny

	fs, diags, st := check(t, "src/main.rs", src, cfg)
	got := diag.FormatGoldenDiagnostics(diags, fs, false)
	want := "warning LNT1001 src/main.rs:2:5 variables can be used directly in the `format!` string\n" +
		"warning LNT1009 src/main.rs:2:5 use of `println!`\n" +
		"warning LNT1008 src/main.rs:2:15 use of `Debug`-based formatting\n" +
		"error LNT1010 src/main.rs:3:5 use of `eprint!`"
	if got != want {
		t.Fatalf("golden mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
	if st.Calls != 2 || st.Rewritable != 1 || st.Reported != 4 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestBuildScriptMayPrint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels[diag.LintPrintStdout] = Warn
	_, diags, _ := check(t, "build.rs", `fn main() { println!("cargo:rerun-if-changed=build.rs"); }`, cfg)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics in build.rs, got %d", len(diags))
	}
}

func TestDebugImplAllowsDebug(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels[diag.LintUseDebug] = Warn
	src := `impl Debug for S { fn fmt(&self, f: &mut Formatter) -> Result { write!(f, "{:?}", self.0) } }`
	_, diags, _ := check(t, "src/lib.rs", src, cfg)
	for _, d := range diags {
		if d.Code == diag.LintUseDebug {
			t.Fatalf("unexpected use_debug inside impl Debug")
		}
	}
}

func TestAttributeLevels(t *testing.T) {
	src := "#[deny(clippy::print_literal)]\nfn f() { println!(\"{}\", \"x\"); }\n"
	_, diags, _ := check(t, "src/lib.rs", src, DefaultConfig())
	if len(diags) != 1 || diags[0].Code != diag.LintPrintLiteral || diags[0].Severity != diag.SevError {
		t.Fatalf("expected one denied print_literal, got %+v", diags)
	}
}

func TestNotes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WithNotes = true
	_, diags, _ := check(t, "src/lib.rs", `fn f() { format!("{} {", x); format!("{}"); }`, cfg)
	codes := map[diag.Code]bool{}
	for _, d := range diags {
		codes[d.Code] = true
		if d.Severity != diag.SevInfo {
			t.Errorf("note %s has severity %s", d.Code.ID(), d.Severity)
		}
	}
	if !codes[diag.InlMalformedFormatString] || !codes[diag.InlUnresolvedArgument] {
		t.Fatalf("missing notes, got %v", codes)
	}
}

func TestEscapedBraceLeavesCallAlone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WithNotes = true
	_, diags, st := check(t, "src/lib.rs", `fn f() { println!("\x7b\u{7d} {}", a, b); }`, cfg)
	if st.Rewritable != 0 {
		t.Fatalf("escaped braces must not be rewritten, stats %+v", st)
	}
	if len(diags) != 1 || diags[0].Code != diag.InlOpaqueSource {
		t.Fatalf("expected one opaque note, got %+v", diags)
	}
	if diags[0].Message != "`println!` format escapes a brace" {
		t.Fatalf("message = %q", diags[0].Message)
	}
}

func TestLevels(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if l, _ := ParseLevel("forbid"); l != Deny {
		t.Fatalf("forbid = %s", l)
	}
	ls := DefaultLevels()
	attrs := []frontend.LintAttr{
		{Level: "allow", Name: "clippy::all"},
		{Level: "warn", Name: "clippy::print_literal"},
		{Level: "deny", Name: "print_literal"},
	}
	if got := ls.Effective(diag.LintPrintLiteral, attrs); got != Warn {
		t.Fatalf("print_literal = %s", got)
	}
	if got := ls.Effective(diag.LintWriteLiteral, attrs); got != Allow {
		t.Fatalf("write_literal = %s", got)
	}
	if got := ls.Effective(diag.LintPrintStdout, nil); got != Allow {
		t.Fatalf("print_stdout default = %s", got)
	}
}
