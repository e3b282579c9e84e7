package fmtstr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse splits a literal body into segments. raw disables escape handling.
func Parse(text string, raw bool) (*FormatString, error) {
	p := parser{src: text, raw: raw}
	segs, err := p.run()
	if err != nil {
		return nil, err
	}
	return &FormatString{Source: text, Raw: raw, Segments: segs}, nil
}

type parser struct {
	src string
	raw bool
	pos int
}

func (p *parser) errorf(off int, msg string) error {
	return &SyntaxError{Offset: off, Msg: msg}
}

func (p *parser) run() ([]Segment, error) {
	segs := make([]Segment, 0, 4)
	litStart := 0
	flush := func(end int) {
		if end > litStart {
			segs = append(segs, Segment{Range: Range{Start: litStart, End: end}})
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && !p.raw:
			if err := p.skipEscape(); err != nil {
				return nil, err
			}
		case c == '{':
			if p.peekAt(p.pos+1) == '{' {
				p.pos += 2
				continue
			}
			flush(p.pos)
			ph, err := p.placeholder()
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Placeholder: ph, Range: ph.Range})
			litStart = p.pos
		case c == '}':
			if p.peekAt(p.pos+1) == '}' {
				p.pos += 2
				continue
			}
			return nil, p.errorf(p.pos, "unmatched `}` found")
		default:
			p.pos++
		}
	}
	flush(p.pos)
	return segs, nil
}

func (p *parser) peekAt(i int) byte {
	if i < len(p.src) {
		return p.src[i]
	}
	return 0
}

// skipEscape copies an escape sequence through as literal text. Escapes
// that decode to a brace are rejected with an *EscapeError.
func (p *parser) skipEscape() error {
	at := p.pos
	p.pos++ // '\'
	if p.pos >= len(p.src) {
		return nil
	}
	switch p.src[p.pos] {
	case 'u':
		p.pos++
		if p.peekAt(p.pos) != '{' {
			return nil
		}
		digits := p.pos + 1
		for p.pos < len(p.src) && p.src[p.pos] != '}' {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return nil
		}
		hex := p.src[digits:p.pos]
		p.pos++
		return p.checkEscapedBrace(at, strings.ReplaceAll(hex, "_", ""))
	case 'x':
		digits := p.pos + 1
		p.pos = min(p.pos+3, len(p.src))
		return p.checkEscapedBrace(at, p.src[digits:p.pos])
	case '\n':
		// продолжение строки: пробелы после переноса не входят в значение
		p.pos++
		for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
			p.pos++
		}
	default:
		_, sz := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += sz
	}
	return nil
}

func (p *parser) checkEscapedBrace(at int, hex string) error {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || (v != '{' && v != '}') {
		return nil
	}
	return &EscapeError{Offset: at, Seq: p.src[at:p.pos]}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// placeholder parses from '{' through the matching '}'.
func (p *parser) placeholder() (*Placeholder, error) {
	start := p.pos
	p.pos++ // '{'
	p.skipSpaces()

	ph := &Placeholder{}
	arg, err := p.argRef()
	if err != nil {
		return nil, err
	}
	ph.Arg = arg
	p.skipSpaces()

	if p.peekAt(p.pos) == ':' {
		p.pos++
		ph.HasColon = true
		specStart := p.pos
		if err := p.spec(ph); err != nil {
			return nil, err
		}
		ph.Spec = p.src[specStart:p.pos]
		p.skipSpaces()
	}

	if p.pos >= len(p.src) {
		return nil, p.errorf(start, "expected `}` but string was terminated")
	}
	if p.src[p.pos] != '}' {
		return nil, p.errorf(p.pos, "invalid format string: expected `}`, found `"+string(p.src[p.pos])+"`")
	}
	p.pos++
	ph.Range = Range{Start: start, End: p.pos}
	return ph, nil
}

func (p *parser) argRef() (ArgRef, error) {
	at := p.pos
	if n, end, ok := p.integerAt(at); ok {
		p.pos = end
		return ArgRef{Kind: RefIndex, Index: n, Range: Range{Start: at, End: end}}, nil
	}
	if name, end, ok := p.identAt(at); ok {
		if name == "_" {
			return ArgRef{}, p.errorf(at, "invalid argument name `_`")
		}
		p.pos = end
		return ArgRef{Kind: RefName, Name: name, Range: Range{Start: at, End: end}}, nil
	}
	if c := p.peekAt(at); c >= '0' && c <= '9' {
		return ArgRef{}, p.errorf(at, "invalid argument index")
	}
	return ArgRef{Kind: RefImplicit, Range: Range{Start: at, End: at}}, nil
}

func (p *parser) integerAt(i int) (n, end int, ok bool) {
	end = i
	for end < len(p.src) && p.src[end] >= '0' && p.src[end] <= '9' {
		end++
	}
	if end == i {
		return 0, i, false
	}
	v, err := strconv.Atoi(p.src[i:end])
	if err != nil {
		return 0, i, false
	}
	return v, end, true
}

func (p *parser) identAt(i int) (name string, end int, ok bool) {
	end = i
	for end < len(p.src) {
		r, sz := utf8.DecodeRuneInString(p.src[end:])
		first := end == i
		if r == '_' || unicode.IsLetter(r) || (!first && (unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc))) {
			end += sz
			continue
		}
		break
	}
	if end == i {
		return "", i, false
	}
	return p.src[i:end], end, true
}

func isAlign(b byte) bool { return b == '<' || b == '^' || b == '>' }

// spec parses [[fill]align][sign]['#']['0'][width]['.' precision][type].
func (p *parser) spec(ph *Placeholder) error {
	// fill может быть любой руной, кроме '{' и '}'
	if p.pos < len(p.src) {
		r, sz := utf8.DecodeRuneInString(p.src[p.pos:])
		if next := p.peekAt(p.pos + sz); isAlign(next) && r != '{' && r != '}' {
			ph.Fill = r
			ph.Align = next
			p.pos += sz + 1
		} else if isAlign(p.src[p.pos]) {
			ph.Align = p.src[p.pos]
			p.pos++
		}
	}

	if c := p.peekAt(p.pos); c == '+' || c == '-' {
		ph.Sign = c
		p.pos++
	}
	if p.peekAt(p.pos) == '#' {
		ph.Alternate = true
		p.pos++
	}
	// "0$" — это ссылка на аргумент 0 как ширину, а не флаг
	if p.peekAt(p.pos) == '0' && p.peekAt(p.pos+1) != '$' {
		ph.ZeroPad = true
		p.pos++
	}

	if w, ok, err := p.count(false); err != nil {
		return err
	} else if ok {
		ph.Width = w
	}

	if p.peekAt(p.pos) == '.' {
		dot := p.pos
		p.pos++
		prec, ok, err := p.count(true)
		if err != nil {
			return err
		}
		if !ok {
			return p.errorf(dot, "expected precision after `.`")
		}
		ph.Precision = prec
	}

	return p.typeName(ph)
}

// count parses a width or precision. An identifier without '$' is left for
// the type and reported as absent.
func (p *parser) count(allowStar bool) (Count, bool, error) {
	at := p.pos
	if allowStar && p.peekAt(at) == '*' {
		p.pos++
		r := Range{Start: at, End: p.pos}
		return Count{Kind: CountStar, Ref: ArgRef{Kind: RefImplicit, Range: r}, Range: r}, true, nil
	}
	if n, end, ok := p.integerAt(at); ok {
		if p.peekAt(end) == '$' {
			p.pos = end + 1
			return Count{
				Kind:  CountRef,
				Ref:   ArgRef{Kind: RefIndex, Index: n, Range: Range{Start: at, End: end}},
				Range: Range{Start: at, End: p.pos},
			}, true, nil
		}
		p.pos = end
		return Count{Kind: CountLiteral, Literal: n, Range: Range{Start: at, End: end}}, true, nil
	}
	if name, end, ok := p.identAt(at); ok && p.peekAt(end) == '$' {
		if name == "_" {
			return Count{}, false, p.errorf(at, "invalid count name `_`")
		}
		p.pos = end + 1
		return Count{
			Kind:  CountRef,
			Ref:   ArgRef{Kind: RefName, Name: name, Range: Range{Start: at, End: end}},
			Range: Range{Start: at, End: p.pos},
		}, true, nil
	}
	return Count{}, false, nil
}

func (p *parser) typeName(ph *Placeholder) error {
	at := p.pos
	if name, end, ok := p.identAt(at); ok {
		p.pos = end
		ph.Type = name
	}
	if p.peekAt(p.pos) == '?' {
		if ph.Type != "" && ph.Type != "x" && ph.Type != "X" {
			return p.errorf(p.pos, "unknown format trait `"+ph.Type+"?`")
		}
		p.pos++
		ph.Type += "?"
	}
	return nil
}
