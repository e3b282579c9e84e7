package frontend

import (
	"strings"

	"capfmt/internal/callsite"
	"capfmt/internal/token"
)

var lintLevels = map[string]bool{
	"allow":  true,
	"warn":   true,
	"deny":   true,
	"forbid": true,
	"expect": true,
}

type attrInfo struct {
	lints   []LintAttr
	msrv    callsite.RustVersion
	hasMSRV bool
}

func (a attrInfo) apply(c Context) Context {
	c = c.with(a.lints)
	if a.hasMSRV {
		c.MSRV = a.msrv
	}
	return c
}

// attribute handles `#[...]` and `#![...]` at i and returns the index of the
// closing bracket.
func (s *scanner) attribute(i int, f *frame) (int, bool) {
	open := i + 1
	inner := false
	if s.kind(open) == token.Bang {
		inner = true
		open++
	}
	if s.kind(open) != token.LBracket || s.match[open] < 0 {
		return i, false
	}
	end := s.match[open]
	info := s.parseAttr(open+1, end)
	if inner {
		f.ctx = info.apply(f.ctx)
	}
	f.pending = info.apply(f.pending)
	return end, true
}

// parseAttr reads the attribute body in toks[from:to].
func (s *scanner) parseAttr(from, to int) attrInfo {
	var info attrInfo
	if from >= to {
		return info
	}
	head := s.toks[from]
	switch {
	case head.Kind == token.Ident && lintLevels[head.Text] && s.kind(from+1) == token.LParen:
		end := s.match[from+1]
		if end < 0 || end > to {
			return info
		}
		for _, name := range s.paths(from+2, end) {
			info.lints = append(info.lints, LintAttr{Level: head.Text, Name: name})
		}
	case s.pathText(from, to) != "":
		// #[clippy::msrv = "1.57"]
		eq := from
		for eq < to && s.toks[eq].Kind != token.Eq {
			eq++
		}
		if eq+1 >= to || s.pathText(from, eq) != "clippy::msrv" || s.toks[eq+1].Kind != token.StringLit {
			return info
		}
		lit := strings.Trim(s.toks[eq+1].Text, `"`)
		if v, err := callsite.ParseRustVersion(lit); err == nil {
			info.msrv = v
			info.hasMSRV = true
		}
	}
	return info
}

// paths splits toks[from:to] at commas and returns each part joined without
// whitespace.
func (s *scanner) paths(from, to int) []string {
	var out []string
	start := from
	for j := from; j <= to; j++ {
		if j < to && s.toks[j].Kind != token.Comma {
			continue
		}
		if p := s.pathText(start, j); p != "" {
			out = append(out, p)
		}
		start = j + 1
	}
	return out
}

func (s *scanner) pathText(from, to int) string {
	var b strings.Builder
	for j := from; j < to; j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.Ident, token.PathSep:
			b.WriteString(t.Text)
		default:
			if t.IsKeyword() {
				b.WriteString(t.Text)
				continue
			}
			if j == from {
				return ""
			}
			return b.String()
		}
	}
	return b.String()
}
