package frontend

import (
	"testing"

	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/source"
)

func scan(t *testing.T, src string, opts Options) (*Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.rs", []byte(src))
	bag := diag.NewBag(16)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return Scan(fs.Get(id), opts), bag
}

func TestScanArguments(t *testing.T) {
	res, _ := scan(t, `fn main() { println!("{} {n}", a.b(), n = x,); }`, Options{})
	if len(res.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(res.Calls))
	}
	c := res.Calls[0]
	if c.Site.Macro != "println" || c.Site.Format.Text != "{} {n}" || c.Site.Format.Raw {
		t.Fatalf("unexpected call %+v", c.Site)
	}
	args := c.Site.Args
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0].Text != "a.b()" || args[0].Kind != callsite.ExprComplex {
		t.Errorf("arg 0 = %+v", args[0])
	}
	if args[1].Name != "n" || args[1].Text != "x" || args[1].Kind != callsite.ExprIdent {
		t.Errorf("arg 1 = %+v", args[1])
	}
	rm := c.ArgElement(1).Remove
	if got := string(res.File.Content[rm.Start:rm.End]); got != ", n = x" {
		t.Errorf("removal text = %q", got)
	}
	inner := c.Site.Format.Inner
	if got := string(res.File.Content[inner.Start:inner.End]); got != "{} {n}" {
		t.Errorf("inner span text = %q", got)
	}
}

func TestScanFormatPosition(t *testing.T) {
	src := `
fn f(w: &mut W) {
    write!(w, "{}", x);
    assert_eq!(a, b, "{}", m);
    debug_assert!(ok, "{y}");
    assert!(ok);
    std::eprintln!(r#"{}"#, HashMap::<K, V>::new());
}`
	res, _ := scan(t, src, Options{})
	want := []struct {
		macro  string
		format string
		args   int
	}{
		{"write", "{}", 1},
		{"assert_eq", "{}", 1},
		{"debug_assert", "{y}", 0},
		{"eprintln", "{}", 1},
	}
	if len(res.Calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(res.Calls))
	}
	for i, w := range want {
		c := res.Calls[i].Site
		if c.Macro != w.macro || c.Format.Text != w.format || len(c.Args) != w.args {
			t.Errorf("call %d = %s %q %d args", i, c.Macro, c.Format.Text, len(c.Args))
		}
	}
	raw := res.Calls[3].Site
	if !raw.Format.Raw || raw.Format.Hashes != 1 || raw.Args[0].Text != "HashMap::<K, V>::new()" {
		t.Errorf("raw call = %+v", raw)
	}
}

func TestScanOpaqueFormat(t *testing.T) {
	res, _ := scan(t, `fn f() { println!(concat!("{}", "x"), y); format!(FMT); }`, Options{})
	// concat! is not a format macro; only the outer call and format! are found
	if len(res.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(res.Calls))
	}
	for _, c := range res.Calls {
		if !c.Site.Format.Opaque {
			t.Errorf("%s!: expected opaque format", c.Site.Macro)
		}
	}
}

func TestScanNestedCalls(t *testing.T) {
	res, _ := scan(t, `fn f() { println!("{}", format!("{}", x)); }`, Options{})
	if len(res.Calls) != 2 || res.Calls[1].Site.Macro != "format" {
		t.Fatalf("nested call not found: %d calls", len(res.Calls))
	}
}

func TestScanAttributes(t *testing.T) {
	src := `#![allow(clippy::print_stdout)]

#[clippy::msrv = "1.57"]
fn old() {
    println!("{}", a);
}

fn new() {
    #[allow(clippy::uninlined_format_args, clippy::print_literal)]
    println!("{}", b);
    println!("{}", c);
}
`
	res, _ := scan(t, src, Options{MSRV: callsite.MustParseRustVersion("1.70")})
	if len(res.Calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(res.Calls))
	}
	if got := res.Calls[0].Site.MSRV.String(); got != "1.57.0" {
		t.Errorf("msrv of old() = %s", got)
	}
	if got := res.Calls[1].Site.MSRV.String(); got != "1.70.0" {
		t.Errorf("msrv of new() = %s", got)
	}
	if n := len(res.Calls[1].Context.Attrs); n != 3 {
		t.Errorf("statement attrs = %+v", res.Calls[1].Context.Attrs)
	}
	last := res.Calls[2].Context.Attrs
	if len(last) != 1 || last[0].Name != "clippy::print_stdout" || last[0].Level != "allow" {
		t.Errorf("attrs after statement = %+v", last)
	}
}

func TestScanDebugImpl(t *testing.T) {
	src := `
impl fmt::Debug for Foo {
    fn fmt(&self, f: &mut fmt::Formatter) -> fmt::Result { write!(f, "{:?}", self.0) }
}
impl<T: Debug> Display for Bar<T> {
    fn fmt(&self, f: &mut fmt::Formatter) -> fmt::Result { write!(f, "{:?}", self.0) }
}`
	res, _ := scan(t, src, Options{})
	if len(res.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(res.Calls))
	}
	if !res.Calls[0].Context.DebugImpl || res.Calls[1].Context.DebugImpl {
		t.Errorf("debug impl flags = %v %v", res.Calls[0].Context.DebugImpl, res.Calls[1].Context.DebugImpl)
	}
}

func TestScanSkipsMacroRules(t *testing.T) {
	src := `macro_rules! p { ($x:expr) => { println!("{}", $x) }; }
fn f() { p!(1); print!("{}", y); }`
	res, _ := scan(t, src, Options{})
	if len(res.Calls) != 1 || res.Calls[0].Site.Macro != "print" {
		t.Fatalf("unexpected calls: %d", len(res.Calls))
	}
}

func TestScanLegacyPanic(t *testing.T) {
	res, _ := scan(t, `fn f() { panic!("{}"); panic!("{}", x); }`, Options{Edition: callsite.Edition2018})
	if len(res.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(res.Calls))
	}
	if !res.Calls[0].Site.Format.Opaque || res.Calls[1].Site.Format.Opaque {
		t.Errorf("opaque flags = %v %v", res.Calls[0].Site.Format.Opaque, res.Calls[1].Site.Format.Opaque)
	}
}

func TestScanUnclosed(t *testing.T) {
	res, bag := scan(t, `fn f() { println!("{}", x; }`, Options{})
	if len(res.Calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(res.Calls))
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynUnclosedMacroCall {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an unclosed invocation diagnostic")
	}
}
