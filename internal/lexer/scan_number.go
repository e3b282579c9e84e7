package lexer

import (
	"capfmt/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.0, 1e-3, 1.0e+10, суффиксы (1u8, 2.0f32).
// `1.foo()` и `1..2` не трогают точку.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '0' {
			var digit func(byte) bool
			switch b1 {
			case 'b':
				digit = func(b byte) bool { return b == '0' || b == '1' }
			case 'o':
				digit = func(b byte) bool { return b >= '0' && b <= '7' }
			case 'x':
				digit = isHex
			}
			if digit != nil {
				lx.cursor.Bump()
				lx.cursor.Bump()
				for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
					lx.cursor.Bump()
				}
				lx.bumpSuffix()
				return lx.emit(kind, start)
			}
		}
	}

	lx.bumpDecimals()

	if lx.cursor.Peek() == '.' {
		_, next, ok := lx.cursor.Peek2()
		if !ok || (next != '.' && next < utf8RuneSelf && !isIdentStartByte(next)) {
			lx.cursor.Bump() // '.'
			kind = token.FloatLit
			lx.bumpDecimals()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		save := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			lx.bumpDecimals()
		} else {
			// `1e` без цифр — это суффикс, а не экспонента
			lx.cursor.Reset(save)
		}
	}

	lx.bumpSuffix()
	return lx.emit(kind, start)
}

func (lx *Lexer) bumpDecimals() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
