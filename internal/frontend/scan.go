package frontend

import (
	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/lexer"
	"capfmt/internal/source"
	"capfmt/internal/token"
)

// Options configures a scan.
type Options struct {
	Reporter diag.Reporter // может быть nil
	// MSRV applies where no `clippy::msrv` attribute is in effect.
	MSRV    callsite.RustVersion
	Edition callsite.Edition
}

// Result holds every format-family call of one file in source order.
type Result struct {
	File  *source.File
	Calls []*Call
}

// frame is one open delimiter group. ctx applies to the group's contents;
// pending additionally carries outer attributes of the item being read.
type frame struct {
	close      token.Kind
	brace      bool
	ctx        Context
	pending    Context
	implHeader bool
}

func (f *frame) resetPending() {
	f.pending = f.ctx
	f.implHeader = false
}

type scanner struct {
	file   *source.File
	opts   Options
	toks   []token.Token
	match  []int // index of the matching delimiter, -1 when unpaired
	frames []*frame
	calls  []*Call
}

// Scan lexes file and collects its format-family invocations.
func Scan(file *source.File, opts Options) *Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	toks := lx.All()
	s := &scanner{
		file:  file,
		opts:  opts,
		toks:  toks,
		match: matchDelims(toks),
	}
	root := Context{MSRV: opts.MSRV}
	s.frames = []*frame{{close: token.EOF, ctx: root, pending: root}}
	s.run()
	return &Result{File: file, Calls: s.calls}
}

func (s *scanner) top() *frame { return s.frames[len(s.frames)-1] }

func (s *scanner) kind(i int) token.Kind {
	if i < 0 || i >= len(s.toks) {
		return token.EOF
	}
	return s.toks[i].Kind
}

func (s *scanner) run() {
	for i := 0; i < len(s.toks); i++ {
		tok := s.toks[i]
		f := s.top()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Kind == token.Pound:
			if end, ok := s.attribute(i, f); ok {
				i = end
			}
		case tok.Kind == token.Ident && tok.Text == "macro_rules" && s.kind(i+1) == token.Bang:
			i = s.skipMacroRules(i)
			f.resetPending()
		case tok.Kind == token.KwImpl:
			f.implHeader = true
		case tok.Kind == token.Ident && tok.Text == "Debug" && f.implHeader && s.kind(i+1) == token.KwFor:
			f.pending.DebugImpl = true
		case tok.Kind == token.Ident && s.kind(i+1) == token.Bang && s.toks[i+2].OpenDelim():
			s.macroCall(i, f)
		case tok.Kind == token.Semi || tok.Kind == token.Comma:
			f.resetPending()
		case tok.OpenDelim():
			s.frames = append(s.frames, &frame{
				close:   token.Closer(tok.Kind),
				brace:   tok.Kind == token.LBrace,
				ctx:     f.pending,
				pending: f.pending,
			})
			if tok.Kind == token.LBrace {
				f.implHeader = false
			}
		case tok.CloseDelim():
			s.closeFrame(i)
		}
	}
}

// closeFrame pops the group closed by token i. Unpaired closers are ignored;
// a closer that pairs with an outer group also closes the unpaired inner ones.
func (s *scanner) closeFrame(i int) {
	if s.match[i] < 0 {
		return
	}
	for len(s.frames) > 1 {
		f := s.top()
		s.frames = s.frames[:len(s.frames)-1]
		if f.close == s.toks[i].Kind {
			if f.brace {
				s.top().resetPending()
			}
			return
		}
	}
}

// skipMacroRules returns the index of the last token of a macro_rules!
// definition starting at i.
func (s *scanner) skipMacroRules(i int) int {
	j := i + 2
	if s.kind(j) == token.Ident {
		j++
	}
	if j < len(s.toks) && s.toks[j].OpenDelim() && s.match[j] > j {
		return s.match[j]
	}
	return j - 1
}

// matchDelims pairs delimiters with a stack. Mismatched closers pop back to the
// nearest group they close; anything left open stays -1.
func matchDelims(toks []token.Token) []int {
	match := make([]int, len(toks))
	stack := make([]int, 0, 32)
	for i, t := range toks {
		match[i] = -1
		switch {
		case t.OpenDelim():
			stack = append(stack, i)
		case t.CloseDelim():
			for k := len(stack) - 1; k >= 0; k-- {
				if token.Closer(toks[stack[k]].Kind) != t.Kind {
					continue
				}
				match[stack[k]] = i
				match[i] = stack[k]
				stack = stack[:k]
				break
			}
		}
	}
	return match
}
