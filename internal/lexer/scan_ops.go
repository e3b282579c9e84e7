package lexer

import (
	"capfmt/internal/diag"
	"capfmt/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '='):
		return lx.emit(token.DotDotEq, start)
	case lx.try3('.', '.', '.'):
		return lx.emit(token.DotDotDot, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlEq, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrEq, start)
	}

	for _, p := range twoByteOps {
		if lx.try2(p.a, p.b) {
			return lx.emit(p.kind, start)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := oneByteOps[ch]; ok {
		return lx.emit(k, start)
	}

	// неизвестный символ: съедаем всю руну, чтобы не резать UTF-8
	if ch >= utf8RuneSelf {
		lx.cursor.Reset(start)
		lx.bumpRune()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown start of token")
	return tok
}

var twoByteOps = []struct {
	a, b byte
	kind token.Kind
}{
	{'.', '.', token.DotDot},
	{':', ':', token.PathSep},
	{'-', '>', token.RArrow},
	{'=', '>', token.FatArrow},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.Ne},
	{'<', '=', token.Le},
	{'>', '=', token.Ge},
	{'<', '<', token.Shl},
	{'>', '>', token.Shr},
	{'+', '=', token.PlusEq},
	{'-', '=', token.MinusEq},
	{'*', '=', token.StarEq},
	{'/', '=', token.SlashEq},
	{'%', '=', token.PercentEq},
	{'^', '=', token.CaretEq},
	{'&', '=', token.AmpEq},
	{'|', '=', token.PipeEq},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'^': token.Caret, '!': token.Bang, '&': token.Amp, '|': token.Pipe, '=': token.Eq,
	'<': token.Lt, '>': token.Gt, '@': token.At, '_': token.Underscore, '.': token.Dot,
	',': token.Comma, ';': token.Semi, ':': token.Colon, '#': token.Pound, '$': token.Dollar,
	'?': token.Question, '~': token.Tilde,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}
