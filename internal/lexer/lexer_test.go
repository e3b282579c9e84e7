package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"capfmt/internal/diag"
	"capfmt/internal/lexer"
	"capfmt/internal/source"
	"capfmt/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(16)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, fmt.Sprintf("%v(%q)", tok.Kind, tok.Text))
	}
	return strings.Join(parts, " ")
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := lx.All()
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nDiagnostics: %d",
			len(expected), len(tokens), input, tokensToString(tokens), bag.Len())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func expectSingleToken(t *testing.T, input string, kind token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != kind {
		t.Errorf("%q: expected kind %v, got %v", input, kind, tok.Kind)
	}
	if tok.Text != input {
		t.Errorf("%q: expected text %q, got %q", input, input, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("%q: expected EOF after token, got %v(%q)", input, next.Kind, next.Text)
	}
	if bag.HasErrors() {
		t.Errorf("%q: unexpected diagnostics: %s", input, bag.Items()[0].Message)
	}
}

func TestMacroCall(t *testing.T) {
	toks := expectTokens(t, `println!("{}", x);`, []token.Kind{
		token.Ident, token.Bang, token.LParen, token.StringLit, token.Comma, token.Ident, token.RParen, token.Semi,
	})
	if toks[3].Span.Start != 9 || toks[3].Span.End != 13 {
		t.Fatalf("string span = %v", toks[3].Span)
	}
}

func TestLiterals(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{`"plain"`, token.StringLit},
		{`"esc \" quote"`, token.StringLit},
		{"\"multi\nline\"", token.StringLit},
		{`r"raw \n"`, token.RawStringLit},
		{`r#"has "quotes""#`, token.RawStringLit},
		{`r##"a "# b"##`, token.RawStringLit},
		{`b"bytes"`, token.ByteStringLit},
		{`br"raw bytes"`, token.RawByteStringLit},
		{`c"cstr"`, token.CStringLit},
		{`'x'`, token.CharLit},
		{`'\n'`, token.CharLit},
		{`'\u{7b}'`, token.CharLit},
		{`'é'`, token.CharLit},
		{`b'x'`, token.ByteLit},
		{`'a`, token.Lifetime},
		{`'static`, token.Lifetime},
		{`42`, token.IntLit},
		{`0x_ff_u8`, token.IntLit},
		{`1_000i64`, token.IntLit},
		{`1.5`, token.FloatLit},
		{`2.0f32`, token.FloatLit},
		{`1e-3`, token.FloatLit},
		{`true`, token.BoolLit},
		{`r#type`, token.Ident},
		{`привет`, token.Ident},
		{`_x`, token.Ident},
		{`_`, token.Underscore},
		{`self`, token.KwSelfValue},
	}
	for _, tc := range cases {
		expectSingleToken(t, tc.in, tc.kind)
	}
}

func TestNumberMethodCallKeepsDot(t *testing.T) {
	expectTokens(t, `1.max(2)`, []token.Kind{
		token.IntLit, token.Dot, token.Ident, token.LParen, token.IntLit, token.RParen,
	})
	expectTokens(t, `0..10`, []token.Kind{token.IntLit, token.DotDot, token.IntLit})
}

func TestOperators(t *testing.T) {
	expectTokens(t, `a::b -> c => d ..= e <<= f != g`, []token.Kind{
		token.Ident, token.PathSep, token.Ident, token.RArrow, token.Ident, token.FatArrow,
		token.Ident, token.DotDotEq, token.Ident, token.ShlEq, token.Ident, token.Ne, token.Ident,
	})
	expectTokens(t, `#![attr] $x`, []token.Kind{
		token.Pound, token.Bang, token.LBracket, token.Ident, token.RBracket, token.Dollar, token.Ident,
	})
}

func TestTriviaAttachedToNextToken(t *testing.T) {
	lx, _ := makeTestLexer("/// doc\n// line\n/* a /* nested */ b */ x")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("expected ident x, got %v(%q)", tok.Kind, tok.Text)
	}
	kinds := make([]token.TriviaKind, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaDocLine, token.TriviaNewline, token.TriviaLineComment, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaSpace,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("trivia kinds = %v, want %v", kinds, want)
	}
}

func TestUnterminated(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{`r#"open"`, diag.LexUnterminatedString},
		{`/* open`, diag.LexUnterminatedBlockComment},
		{"§", diag.LexUnknownChar},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.in)
		lx.All()
		if !bag.HasErrors() {
			t.Errorf("%q: expected error", tc.in)
			continue
		}
		if got := bag.Items()[0].Code; got != tc.code {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.code.ID(), got.ID())
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must be sticky, got %v", n.Kind)
	}
}
