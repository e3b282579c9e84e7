// Package fmtstr parses the body of a Rust format string literal into literal
// runs and placeholders.
//
// The parser works on the literal as written in source, not on its unescaped
// value: offsets in the result are byte offsets into that text, so a rewriter
// can splice it without re-escaping. In non-raw strings escape sequences are
// copied through as literal text, except those that decode to a brace
// (`\x7b`, `\u{7d}`): the compiler sees a real brace there, so Parse fails
// with ErrEscapedBrace and the literal is left alone.
//
// Placeholder grammar:
//
//	'{' ws* arg? ws* (':' spec)? ws* '}'
//	spec  := [[fill]align][sign]['#']['0'][width]['.' precision][type]
//	count := integer | integer '$' | identifier '$'
//	precision := count | '*'
//	type  := '' | '?' | 'x?' | 'X?' | identifier
package fmtstr
