package lexer

import (
	"capfmt/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.bumpIdentBody() {
		return lx.scanOperatorOrPunct()
	}

	tok := lx.emit(token.Ident, start)
	if tok.Text == "_" {
		tok.Kind = token.Underscore
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanRawIdent handles `r#name`. Raw identifiers are never keywords.
func (lx *Lexer) scanRawIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // r
	lx.cursor.Bump() // #
	lx.bumpIdentBody()
	return lx.emit(token.Ident, start)
}

// bumpIdentBody consumes an identifier start followed by continue characters.
func (lx *Lexer) bumpIdentBody() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
	} else if !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return true
		}
		lx.bumpRune()
	}
}

// atRawIdent reports `r#` followed by an identifier start (not `r#"`).
func (lx *Lexer) atRawIdent() bool {
	if !lx.cursor.HasPrefix("r#") {
		return false
	}
	b := lx.cursor.PeekAt(2)
	return isIdentStartByte(b) || b >= utf8RuneSelf
}
