package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var rustSeeds = []string{
	"",
	"fn main() {}\n",
	`fn main() { let x = 1; println!("{}", x); }`,
	`fn f(w: &mut String) { write!(w, "{} {:?}\n", a, b.c()).unwrap(); }`,
	`fn g() { format!(r#"{"x"}{}"#, y); eprintln!("{0} {0:>5}", v,); }`,
	`#[clippy::msrv = "1.57"] fn h() { panic!("{}", e); assert_eq!(a, b, "{}", c); }`,
	"macro_rules! m { ($x:expr) => { println!(\"{}\", $x) }; }\n",
	"fn i() { println!(concat!(\"a\", \"{}\"), x); println!(\"\"); print!(\"\\n\"); }\n",
	"/* /* nested */ */ fn j<'a>(s: &'a str) -> char { 'x' }\n",
	"fn k() { println!(\"{", // незакрытый вызов
}

var formatSeeds = []struct {
	format string
	raw    bool
	args   uint8
}{
	{"", false, 0},
	{"{}", false, 1},
	{"val='{}'", false, 1},
	{"Hello {} is {:.*}", false, 3},
	{"{:1$} {0:>+#010.3?}", false, 2},
	{"{{}} {} {x}", false, 1},
	{`\u{7b}{}\n`, false, 1},
	{`{"}"}`, true, 0},
	{"{ } {:w$}", false, 1},
	{"{2} {0} {1}", false, 3},
	{"{", false, 0},
}

func addRustSeeds(f *testing.F) {
	for _, s := range rustSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func addFormatSeeds(f *testing.F) {
	for _, s := range formatSeeds {
		f.Add(s.format, s.raw, s.args)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return src
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
