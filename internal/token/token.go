package token

import (
	"strings"

	"capfmt/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, char or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind >= BoolLit && t.Kind <= CStringLit
}

// IsStringLike reports whether the token is any kind of string literal.
func (t Token) IsStringLike() bool {
	return t.Kind >= StringLit && t.Kind <= CStringLit
}

// IsPunct reports whether the token is punctuation or an operator.
func (t Token) IsPunct() bool {
	return t.Kind >= Plus && t.Kind <= RBracket
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAs && t.Kind <= KwDyn
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsRawIdent reports whether the identifier was written as `r#name`.
func (t Token) IsRawIdent() bool {
	return t.Kind == Ident && strings.HasPrefix(t.Text, "r#")
}

// Name returns the identifier without the raw prefix.
func (t Token) Name() string {
	return strings.TrimPrefix(t.Text, "r#")
}

// OpenDelim reports whether the token opens a delimited group.
func (t Token) OpenDelim() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// CloseDelim reports whether the token closes a delimited group.
func (t Token) CloseDelim() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// Closer returns the closing kind for an opening delimiter.
func Closer(open Kind) Kind {
	switch open {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	}
	return Invalid
}
