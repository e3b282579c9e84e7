package lexer

import (
	"capfmt/internal/diag"
	"capfmt/internal/token"
)

// scanQuoted сканирует "..." с escape-последовательностями; переводы строк разрешены.
// The cursor is positioned on the opening quote; any prefix was already consumed
// by the caller and belongs to the token through start.
func (lx *Lexer) scanQuoted(kind token.Kind) token.Token {
	return lx.scanQuotedFrom(lx.cursor.Mark(), kind)
}

func (lx *Lexer) scanQuotedFrom(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '"' {
			lx.bumpSuffix()
			return lx.emit(kind, start)
		}
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated double quote string")
	return tok
}

// atRawPrefix reports whether a raw string opener (`#`* followed by `"`)
// starts after skip prefix bytes.
func (lx *Lexer) atRawPrefix(skip uint32) bool {
	i := skip
	for lx.cursor.PeekAt(i) == '#' {
		i++
	}
	return lx.cursor.PeekAt(i) == '"'
}

// scanRawString reads r#"..."# with a matching number of hashes. Escapes are not
// interpreted.
func (lx *Lexer) scanRawString(skip int, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	for range skip {
		lx.cursor.Bump()
	}
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		closing := 0
		for closing < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			closing++
		}
		if closing == hashes {
			lx.bumpSuffix()
			return lx.emit(kind, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string")
	return tok
}

// scanPrefixedLiteral handles b'x', b"..", br"..", c"..", cr"..". Anything else
// starting with b or c is an identifier.
func (lx *Lexer) scanPrefixedLiteral(prefix byte) token.Token {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != prefix {
		return lx.scanIdentOrKeyword()
	}
	switch {
	case b1 == '"':
		kind := token.ByteStringLit
		if prefix == 'c' {
			kind = token.CStringLit
		}
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		return lx.scanQuotedFrom(start, kind)
	case b1 == '\'' && prefix == 'b':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok := lx.scanCharFrom(start)
		if tok.Kind == token.CharLit {
			tok.Kind = token.ByteLit
		}
		return tok
	case b1 == 'r' && lx.atRawPrefix(2):
		kind := token.RawByteStringLit
		if prefix == 'c' {
			kind = token.CStringLit
		}
		return lx.scanRawString(2, kind)
	}
	return lx.scanIdentOrKeyword()
}

// scanCharOrLifetime разбирает 'x', '\n', '\u{..}' и 'label.
func (lx *Lexer) scanCharOrLifetime() token.Token {
	start := lx.cursor.Mark()
	b0, b1, b2, ok := lx.cursor.Peek3()
	if ok && b1 != '\\' && b2 == '\'' {
		return lx.scanCharFrom(start)
	}
	if b0 == '\'' && b1 == '\\' {
		return lx.scanCharFrom(start)
	}

	// многобайтовый символ: 'é'
	lx.cursor.Bump()
	r, sz := lx.peekRune()
	if sz > 1 {
		save := lx.cursor.Mark()
		lx.bumpRune()
		if lx.cursor.Peek() == '\'' {
			lx.cursor.Bump()
			return lx.emit(token.CharLit, start)
		}
		lx.cursor.Reset(save)
	}
	if sz > 0 && (r == '_' || (r < utf8RuneSelf && isIdentStartByte(byte(r))) || (r >= utf8RuneSelf && isIdentStartRune(r))) {
		lx.bumpIdentBody()
		return lx.emit(token.Lifetime, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "invalid char literal")
	return tok
}

func (lx *Lexer) scanCharFrom(start Mark) token.Token {
	lx.cursor.Bump() // opening '\''
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '\'':
			return lx.emit(token.CharLit, start)
		case '\\':
			lx.cursor.Bump()
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated character literal")
			return tok
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated character literal")
	return tok
}

// bumpSuffix consumes a literal suffix such as `u8` or `_usize`.
func (lx *Lexer) bumpSuffix() {
	b := lx.cursor.Peek()
	if isIdentStartByte(b) {
		lx.bumpIdentBody()
	}
}
