package lexer

import (
	"testing"

	"capfmt/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.rs", []byte(content)))
}

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if c.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := c.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := c.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !c.EOF() || c.Peek() != 0 || c.Bump() != 0 {
		t.Fatal("cursor must stay at EOF")
	}
}

func TestCursorLookahead(t *testing.T) {
	c := NewCursor(createFile(`r#"x"#`))
	if !c.HasPrefix(`r#"`) || c.HasPrefix(`r##`) {
		t.Fatal("HasPrefix mismatch at start")
	}
	if b0, b1, b2, ok := c.Peek3(); !ok || b0 != 'r' || b1 != '#' || b2 != '"' {
		t.Fatalf("Peek3 = %q %q %q %v", b0, b1, b2, ok)
	}
	if c.PeekAt(5) != '#' || c.PeekAt(6) != 0 {
		t.Fatalf("PeekAt past the end must be 0")
	}

	c.Off = 5
	if _, _, ok := c.Peek2(); ok {
		t.Fatal("Peek2 must fail with one byte left")
	}
	if _, _, _, ok := c.Peek3(); ok {
		t.Fatal("Peek3 must fail with one byte left")
	}
	if !c.HasPrefix("#") || c.HasPrefix("#x") {
		t.Fatal("HasPrefix mismatch at the end")
	}
}

func TestCursorSpanResolve(t *testing.T) {
	// α и β занимают по два байта
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rs", []byte("α\nβ")))
	c := NewCursor(file)

	m := c.Mark()
	c.Bump()
	c.Bump()
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 || sp.File != file.ID {
		t.Fatalf("span = %v", sp)
	}
	start, end := fs.Resolve(sp)
	if start != (source.LineCol{Line: 1, Col: 1}) || end != (source.LineCol{Line: 1, Col: 3}) {
		t.Fatalf("resolve = %+v %+v", start, end)
	}

	m = c.Mark()
	c.Bump()
	start, end = fs.Resolve(c.SpanFrom(m))
	if start != (source.LineCol{Line: 1, Col: 3}) || end != (source.LineCol{Line: 2, Col: 1}) {
		t.Fatalf("newline resolve = %+v %+v", start, end)
	}
}

func TestCursorEatAndReset(t *testing.T) {
	c := NewCursor(createFile("abc"))
	if c.Eat('x') || c.Peek() != 'a' {
		t.Fatal("failed Eat must not move")
	}
	start := c.Mark()
	if !c.Eat('a') || !c.Eat('b') {
		t.Fatal("Eat should consume matching bytes")
	}
	mid := c.Mark()
	c.Bump()
	if c.Eat('c') {
		t.Fatal("Eat at EOF must fail")
	}
	c.Reset(mid)
	if c.Peek() != 'c' {
		t.Fatalf("after reset to mid: %q", c.Peek())
	}
	c.Reset(start)
	if c.Peek() != 'a' {
		t.Fatalf("after reset to start: %q", c.Peek())
	}
}
