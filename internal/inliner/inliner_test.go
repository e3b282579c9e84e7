package inliner

import (
	"errors"
	"strings"
	"testing"

	"capfmt/internal/binding"
	"capfmt/internal/callsite"
	"capfmt/internal/eligibility"
	"capfmt/internal/fmtstr"
)

// call builds a call site from a format body and argument texts; "name=expr"
// declares a named argument.
func call(format string, argTexts ...string) *callsite.CallSite {
	args := make([]callsite.Argument, 0, len(argTexts))
	for _, t := range argTexts {
		a := callsite.Argument{Text: t}
		if name, expr, ok := strings.Cut(t, "="); ok && callsite.IsIdentifier(name) {
			a.Name, a.Text = name, expr
		}
		a.Kind, a.Lit = callsite.Classify(a.Text)
		args = append(args, a)
	}
	return &callsite.CallSite{
		Macro:   "println",
		Format:  callsite.FormatSource{Text: format},
		Args:    args,
		Scope:   callsite.AnyName{},
		Edition: callsite.Edition2021,
	}
}

func argTexts(args []callsite.Argument) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a.Name != "" {
			out = append(out, a.Name+"="+a.Text)
			continue
		}
		out = append(out, a.Text)
	}
	return out
}

func TestInline(t *testing.T) {
	cases := []struct {
		name    string
		cs      *callsite.CallSite
		literal string
		args    []string
		changed bool
	}{
		{"single", call("val='{}'", "local_i32"), "val='{local_i32}'", nil, true},
		{"method call", call("{}", "local_opt.unwrap()"), "{}", []string{"local_opt.unwrap()"}, false},
		{"star precision", call("Hello {} is {:.*}", `"x"`, "5", "local_f64"),
			"Hello {} is {local_f64:.*}", []string{`"x"`, "5"}, true},
		{"flags kept", call("{:>10.3?}", "x"), "{x:>10.3?}", nil, true},
		{"width ref", call("{:1$}", "v", "w"), "{v:w$}", nil, true},
		{"star inlined", call("{:.*}", "p", "v"), "{v:.p$}", nil, true},
		{"star kept value inlined", call("{:.*}", "p.len()", "v"), "{v:.*}", []string{"p.len()"}, true},
		{"duplicate use", call("{0} {0:?}", "x"), "{x} {x:?}", nil, true},
		{"renumber", call("{1} {0} {1}", "a", "b.c()"), "{0} {a} {0}", []string{"b.c()"}, true},
		{"implicit after removal", call("{} {}", "a", "b.c()"), "{a} {}", []string{"b.c()"}, true},
		{"named arg", call("{n}", "n=x"), "{x}", nil, true},
		{"named same", call("{x}", "x=x"), "{x}", nil, true},
		{"named width", call("{:w$}", "v.f", "w=width"), "{:width$}", []string{"v.f"}, true},
		{"already captured", call("{x} {y}"), "{x} {y}", nil, false},
		{"literal arg", call("{}", `"x"`), "{}", []string{`"x"`}, false},
		{"self", call("{}", "self"), "{}", []string{"self"}, false},
		{"raw ident", call("{}", "r#type"), "{}", []string{"r#type"}, false},
		{"conflict", call("{} {x}", "x", "x=y.z()"), "{} {x}", []string{"x", "x=y.z()"}, false},
		{"named arg leaves with the positional", call("{} {x}", "x", "x=y"), "{x} {y}", nil, true},
		{"swap named", call("{a} {b}", "a=b", "b=a"), "{b} {a}", nil, true},
		{"escaped braces", call("{{}} {}", "x"), "{{}} {x}", nil, true},
		{"whitespace", call("{ }", "x"), "{ x}", nil, true},
		{"unicode escape", call(`\u{41}{}`, "x"), `\u{41}{x}`, nil, true},
		{"hex escape", call(`\x41 {}`, "x"), `\x41 {x}`, nil, true},
		{"escaped unicode braces", call(`\u{7b}\u{7d} {}`, "a", "b"), `\u{7b}\u{7d} {}`, []string{"a", "b"}, false},
		{"escaped hex braces", call(`\x7b\x7d {}`, "a", "b"), `\x7b\x7d {}`, []string{"a", "b"}, false},
		{"padded argument", call("{}", " x "), "{x}", nil, true},
		{"padded named argument", call("{} {x}", " x ", "x= y"), "{x} {y}", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Inline(tc.cs, DefaultOptions())
			if err != nil {
				t.Fatalf("Inline: %v", err)
			}
			if out.Changed() != tc.changed {
				t.Fatalf("changed = %v, want %v", out.Changed(), tc.changed)
			}
			if out.Literal != tc.literal {
				t.Fatalf("literal = %q, want %q", out.Literal, tc.literal)
			}
			if got := argTexts(out.Args); strings.Join(got, ",") != strings.Join(tc.args, ",") {
				t.Fatalf("args = %q, want %q", got, tc.args)
			}
		})
	}
}

// reanalyze feeds a rewritten outcome back in.
func reanalyze(cs *callsite.CallSite, out Outcome) *callsite.CallSite {
	next := *cs
	next.Format.Text = out.Literal
	next.Args = out.Args
	return &next
}

func TestFixedPoint(t *testing.T) {
	sites := []*callsite.CallSite{
		call("Hello {} is {:.*}", `"x"`, "5", "local_f64"),
		call("{1} {0} {1}", "a", "b.c()"),
		call("{:.*} {}", "p", "v", "w.x"),
		call("{a} {b} {2}", "a=b", "b=a", "c"),
		call("{} {x}", "x", "x=y"),
		call("{n:>w$}", "n=x", "w=x"),
	}
	for _, cs := range sites {
		first, err := Inline(cs, DefaultOptions())
		if err != nil {
			t.Fatalf("%q: %v", cs.Format.Text, err)
		}
		second, err := Inline(reanalyze(cs, first), DefaultOptions())
		if err != nil {
			t.Fatalf("%q second pass: %v", first.Literal, err)
		}
		if second.Changed() {
			t.Errorf("%q -> %q -> %q: not a fixed point", cs.Format.Text, first.Literal, second.Literal)
		}
	}
}

func TestUnchangedIsByteIdentical(t *testing.T) {
	cs := call("  {:>8}\t{{x}}\n", "a.b")
	out, err := Inline(cs, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed() || out.Literal != cs.Format.Text || len(out.Args) != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Reason != eligibility.ReasonNotIdentifier {
		t.Fatalf("reason = %v", out.Reason)
	}
}

func TestVersionGate(t *testing.T) {
	cs := call("{}", "x")
	cs.MSRV = callsite.MustParseRustVersion("1.57")
	out, err := Inline(cs, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed() || out.Reason != eligibility.ReasonBelowMinimumVersion {
		t.Fatalf("expected version-gated unchanged outcome, got %+v", out)
	}

	cs.MSRV = callsite.MustParseRustVersion("1.58")
	if out, _ := Inline(cs, DefaultOptions()); !out.Changed() {
		t.Fatal("1.58 allows captures")
	}
}

func TestLegacyEdition(t *testing.T) {
	cs := call("{}", "x")
	cs.Macro = "panic"
	cs.Edition = callsite.Edition2018
	out, err := Inline(cs, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed() || out.Reason != eligibility.ReasonLegacyEdition {
		t.Fatalf("expected legacy-edition unchanged outcome, got %+v", out)
	}
}

func TestOpaqueSource(t *testing.T) {
	cs := call("", "x")
	cs.Format = callsite.FormatSource{Opaque: true}
	out, err := Inline(cs, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed() || out.Reason != eligibility.ReasonOpaque {
		t.Fatalf("expected opaque outcome, got %+v", out)
	}
	if len(out.Decisions) != 1 || out.Decisions[0].Verdict != eligibility.KeepExplicit {
		t.Fatalf("decisions = %+v", out.Decisions)
	}
}

func TestAllowMixed(t *testing.T) {
	cs := call("{} {}", "a", "b.c()")
	out, err := Inline(cs, Options{AllowMixed: false})
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed() {
		t.Fatalf("mixed call must stay unchanged, got %q", out.Literal)
	}
	out, err = Inline(call("{} {}", "a", "b"), Options{AllowMixed: false})
	if err != nil || out.Literal != "{a} {b}" {
		t.Fatalf("fully inlinable call: %q, %v", out.Literal, err)
	}
}

func TestErrors(t *testing.T) {
	_, err := Inline(call("{", "x"), DefaultOptions())
	if !errors.Is(err, fmtstr.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	out, err := Inline(call("{} {}", "x"), DefaultOptions())
	if !errors.Is(err, binding.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if out.Changed() || out.Literal != "{} {}" {
		t.Fatalf("errors must leave the call unchanged, got %+v", out)
	}
	cs := call("{missing}")
	cs.Scope = callsite.NewNameSet()
	if _, err := Inline(cs, DefaultOptions()); !errors.Is(err, binding.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved for unknown capture, got %v", err)
	}
}

func TestEscapedBraceIsOpaque(t *testing.T) {
	for _, format := range []string{`\u{7b}\u{7d} {}`, `\x7b\x7d {}`, `a\u{7_B} {}`, `{} \x7D`} {
		out, err := Inline(call(format, "a", "b"), DefaultOptions())
		if err != nil {
			t.Fatalf("%q: escaped brace must not be an error, got %v", format, err)
		}
		if out.Changed() || out.Literal != format || out.Reason != eligibility.ReasonOpaque {
			t.Fatalf("%q: expected opaque outcome, got %+v", format, out)
		}
		if len(out.Decisions) != 2 || out.Decisions[0].Verdict != eligibility.KeepExplicit {
			t.Fatalf("%q: decisions = %+v", format, out.Decisions)
		}
	}

	// в сыром литерале `\u{7b}` это обычный текст
	cs := call(`\u{7b} {}`, "x")
	cs.Format.Raw = true
	out, err := Inline(cs, DefaultOptions())
	if err != nil || out.Literal != `\u{7b} {x}` {
		t.Fatalf("raw literal = %q, %v", out.Literal, err)
	}
}

func TestRawFormatString(t *testing.T) {
	cs := call(`\{}`, "x")
	cs.Format.Raw = true
	cs.Format.Hashes = 1
	out, err := Inline(cs, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Literal != `\{x}` {
		t.Fatalf("raw literal = %q", out.Literal)
	}
}
