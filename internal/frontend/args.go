package frontend

import (
	"strings"

	"fortio.org/safecast"

	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/source"
	"capfmt/internal/token"
)

// macroCall records the invocation whose name is toks[i] when it is a
// format-family macro with a format string.
func (s *scanner) macroCall(i int, f *frame) {
	name := s.toks[i].Name()
	fmtIdx, ok := formatArgIndex[name]
	if !ok {
		return
	}
	open := i + 2
	end := s.match[open]
	if end < 0 {
		s.report(diag.SynUnclosedMacroCall, s.toks[i].Span.Cover(s.toks[open].Span), "unclosed `"+name+"!` invocation")
		return
	}

	parts, ok := s.split(open+1, end)
	if !ok || len(parts) <= fmtIdx {
		return
	}

	elems := make([]Element, len(parts))
	for k, p := range parts {
		sp := s.spanOf(p[0], p[1])
		rm := sp
		if k > 0 {
			rm.Start = elems[k-1].Span.End
		}
		elems[k] = Element{Span: sp, Remove: rm, Text: s.text(sp)}
	}

	site := &callsite.CallSite{
		Macro:   name,
		Format:  s.formatSource(parts[fmtIdx]),
		Args:    make([]callsite.Argument, 0, len(parts)-fmtIdx-1),
		Scope:   callsite.AnyName{},
		MSRV:    f.pending.MSRV,
		Edition: s.opts.Edition,
		Span:    s.toks[i].Span.Cover(s.toks[end].Span),
	}
	for _, p := range parts[fmtIdx+1:] {
		site.Args = append(site.Args, s.argument(p[0], p[1]))
	}
	// panic!("{}") before 2021 prints the braces literally
	if site.CapturesDisabledByEdition() && len(site.Args) == 0 {
		site.Format = callsite.FormatSource{Opaque: true, Span: site.Format.Span}
	}

	s.calls = append(s.calls, &Call{
		Site:        site,
		Name:        s.toks[i].Span,
		Group:       s.toks[open].Span.Cover(s.toks[end].Span),
		Elements:    elems,
		FormatIndex: fmtIdx,
		Context:     f.pending,
	})
}

// split divides toks[from:to] at top-level commas. A trailing comma is
// dropped; an empty element in the middle makes the call unusable.
func (s *scanner) split(from, to int) ([][2]int, bool) {
	var out [][2]int
	start := from
	for j := from; j < to; j++ {
		t := s.toks[j]
		switch {
		case t.OpenDelim():
			if s.match[j] > j {
				j = s.match[j]
			}
		case t.Kind == token.PathSep && s.kind(j+1) == token.Lt:
			j = s.skipGenerics(j+1, to)
		case t.Kind == token.Comma:
			if start == j {
				return nil, false
			}
			out = append(out, [2]int{start, j})
			start = j + 1
		}
	}
	if start < to {
		out = append(out, [2]int{start, to})
	}
	return out, true
}

// skipGenerics returns the index of the `>` closing the turbofish opened at i.
func (s *scanner) skipGenerics(i, to int) int {
	depth := 0
	for j := i; j < to; j++ {
		t := s.toks[j]
		switch {
		case t.Kind == token.Lt:
			depth++
		case t.Kind == token.Gt:
			depth--
		case t.Kind == token.Shr:
			depth -= 2
		case t.OpenDelim() && s.match[j] > j:
			j = s.match[j]
		}
		if depth <= 0 {
			return j
		}
	}
	return to - 1
}

func (s *scanner) spanOf(from, to int) source.Span {
	return s.toks[from].Span.Cover(s.toks[to-1].Span)
}

func (s *scanner) text(sp source.Span) string {
	return string(s.file.Content[sp.Start:sp.End])
}

// formatSource describes the format element. Anything but a single plain or
// raw string literal token is opaque.
func (s *scanner) formatSource(p [2]int) callsite.FormatSource {
	sp := s.spanOf(p[0], p[1])
	if p[1]-p[0] != 1 {
		return callsite.FormatSource{Opaque: true, Span: sp}
	}
	t := s.toks[p[0]]
	switch t.Kind {
	case token.StringLit:
		if len(t.Text) < 2 {
			break
		}
		return callsite.FormatSource{
			Text:  t.Text[1 : len(t.Text)-1],
			Span:  sp,
			Inner: sp.Sub(1, sp.Len()-1),
		}
	case token.RawStringLit:
		hashes := strings.IndexByte(t.Text, '"') - 1
		if hashes < 0 || len(t.Text) < 3+2*hashes {
			break
		}
		h, err := safecast.Conv[uint32](hashes)
		if err != nil {
			break
		}
		return callsite.FormatSource{
			Raw:    true,
			Hashes: hashes,
			Text:   t.Text[hashes+2 : len(t.Text)-hashes-1],
			Span:   sp,
			Inner:  sp.Sub(h+2, sp.Len()-h-1),
		}
	}
	return callsite.FormatSource{Opaque: true, Span: sp}
}

// argument builds the argument for toks[from:to], splitting off `name =`.
func (s *scanner) argument(from, to int) callsite.Argument {
	a := callsite.Argument{Span: s.spanOf(from, to)}
	if to-from >= 3 && s.toks[from].Kind == token.Ident && s.toks[from+1].Kind == token.Eq {
		a.Name = s.toks[from].Name()
		from += 2
	}
	a.ExprSpan = s.spanOf(from, to)
	a.Text = s.text(a.ExprSpan)
	if to-from == 1 {
		a.Kind, a.Lit = classifyToken(s.toks[from])
	} else {
		a.Kind = callsite.ExprComplex
	}
	return a
}

// classifyToken classifies a single-token expression. Raw identifiers and
// `self` cannot be captured, so they count as complex.
func classifyToken(t token.Token) (callsite.ExprKind, callsite.LitKind) {
	switch {
	case t.Kind == token.Ident && !t.IsRawIdent():
		return callsite.ExprIdent, callsite.LitNone
	case t.IsLiteral():
		return callsite.ExprLiteral, callsite.LitKindOf(t.Kind)
	}
	return callsite.ExprComplex, callsite.LitNone
}

func (s *scanner) report(code diag.Code, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		s.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
