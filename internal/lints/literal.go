package lints

import (
	"strings"

	"capfmt/internal/binding"
	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/fix"
	"capfmt/internal/fmtstr"
	"capfmt/internal/source"
)

type foldedLiteral struct {
	arg         int
	placeholder source.Span
	// replacement is the text to put in place of the placeholder; ok is false
	// when the literal cannot be written safely into this format string.
	replacement string
	ok          bool
}

// literal reports string, char and bool literals that are formatted once with
// a default placeholder and could be part of the format string itself.
func (c *checker) literal() {
	if c.format == nil || c.res == nil {
		return
	}
	code := diag.LintPrintLiteral
	if writeFamily[c.call.Site.Macro] {
		code = diag.LintWriteLiteral
	}
	if c.level(code) == Allow {
		return
	}

	args := c.call.Site.Args
	phs := c.format.Placeholders()
	var folds []foldedLiteral
	for _, b := range c.res.Bindings {
		if b.Use != binding.UseValue || b.Slot != binding.SlotArg || len(c.res.Uses[b.Arg]) != 1 {
			continue
		}
		ph := phs[b.Placeholder]
		if !ph.IsDefault() || args[b.Arg].Kind != callsite.ExprLiteral {
			continue
		}
		repl, ok, skip := literalReplacement(args[b.Arg], c.call.Site.Format.Raw)
		if skip {
			continue
		}
		folds = append(folds, foldedLiteral{
			arg:         b.Arg,
			placeholder: c.span(ph.Range),
			replacement: repl,
			ok:          ok,
		})
	}
	if len(folds) == 0 {
		return
	}

	var fixes []diag.Fix
	if c.canFold(folds) {
		edits := make([]diag.TextEdit, 0, 2*len(folds))
		for _, f := range folds {
			rm := c.call.ArgElement(f.arg).Remove
			edits = append(edits,
				diag.TextEdit{Span: f.placeholder, NewText: f.replacement, OldText: c.text(f.placeholder)},
				diag.TextEdit{Span: rm, OldText: c.text(rm)},
			)
		}
		fixes = append(fixes, fix.MultiEdit("try", edits, fix.Preferred()))
	}

	b := c.report(code, args[folds[0].arg].ExprSpan, "literal with an empty format string", fixes...)
	for _, f := range folds[1:] {
		b = b.WithNote(args[f.arg].ExprSpan, "also formatted as a literal")
	}
	b.Emit()
}

// canFold reports whether every literal has a replacement and no explicit
// index refers to an argument after the first removed one.
func (c *checker) canFold(folds []foldedLiteral) bool {
	first := len(c.call.Site.Args)
	for _, f := range folds {
		if !f.ok {
			return false
		}
		first = min(first, f.arg)
	}
	for _, b := range c.res.Bindings {
		if b.Ref.Kind == fmtstr.RefIndex && b.Ref.Index > first {
			return false
		}
	}
	return true
}

// literalReplacement renders the literal argument as format string text.
// skip means the literal must not be reported at all.
func literalReplacement(a callsite.Argument, rawFormat bool) (repl string, ok, skip bool) {
	var rawLit bool
	switch a.Lit {
	case callsite.LitString:
		repl = a.Text[1 : len(a.Text)-1]
	case callsite.LitRawString:
		body := strings.TrimPrefix(a.Text, "r")
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		repl = body[hashes+1 : len(body)-hashes-1]
		rawLit = true
	case callsite.LitChar:
		switch a.Text {
		case `'"'`:
			repl = `\"`
		case `'\''`:
			repl = `'`
		default:
			repl = a.Text[1 : len(a.Text)-1]
		}
	case callsite.LitBool:
		repl = a.Text
	default:
		return "", false, true
	}

	switch {
	case !rawFormat && rawLit:
		repl = strings.ReplaceAll(repl, `\`, `\\`)
		repl = strings.ReplaceAll(repl, `"`, `\"`)
	case rawFormat && !rawLit:
		unescaped, lint := conservativeUnescape(repl)
		if !lint {
			return "", false, true
		}
		if unescaped == nil {
			return "", false, false
		}
		repl = *unescaped
	case rawFormat && rawLit:
		if strings.ContainsAny(repl, `#"`) {
			return "", false, false
		}
	}
	repl = strings.ReplaceAll(repl, "{", "{{")
	repl = strings.ReplaceAll(repl, "}", "}}")
	return repl, true, false
}

// conservativeUnescape resolves only `\\`. A `#` or `\"` cannot be written into
// a raw string without changing its delimiters: lint is true, result nil.
// Any other escape means lint is false and the literal is left alone.
func conservativeUnescape(s string) (result *string, lint bool) {
	var sb strings.Builder
	blocked := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '#':
			blocked = true
		case '\\':
			if i+1 >= len(s) {
				return nil, false
			}
			i++
			switch s[i] {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				blocked = true
			default:
				return nil, false
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	if blocked {
		return nil, true
	}
	out := sb.String()
	return &out, true
}
