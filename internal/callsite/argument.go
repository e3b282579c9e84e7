package callsite

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"capfmt/internal/source"
	"capfmt/internal/token"
)

// ExprKind classifies an argument expression.
type ExprKind uint8

const (
	// ExprComplex is anything that is not a bare identifier or a literal:
	// calls, paths, field access, `self`, raw identifiers, macro invocations.
	ExprComplex ExprKind = iota
	// ExprIdent is a bare, non-raw identifier.
	ExprIdent
	// ExprLiteral is a single literal token.
	ExprLiteral
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLiteral:
		return "literal"
	default:
		return "complex"
	}
}

// LitKind refines ExprLiteral.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitString
	LitRawString
	LitChar
	LitBool
	LitNumber
	LitOther // byte strings, byte chars, C strings
)

func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitRawString:
		return "raw_string"
	case LitChar:
		return "char"
	case LitBool:
		return "bool"
	case LitNumber:
		return "number"
	case LitOther:
		return "other"
	default:
		return "none"
	}
}

// Argument is one expression supplied after the format string.
type Argument struct {
	// Name is set for `name = expr` arguments.
	Name string
	// Text is the expression source, without the `name =` prefix.
	Text string
	Kind ExprKind
	Lit  LitKind
	// Span covers the whole argument including the name; ExprSpan only the expression.
	Span     source.Span
	ExprSpan source.Span
}

// IsNamed reports whether the argument was supplied as `name = expr`.
func (a Argument) IsNamed() bool { return a.Name != "" }

// Ident returns the normalized identifier for ExprIdent arguments.
func (a Argument) Ident() (string, bool) {
	if a.Kind != ExprIdent {
		return "", false
	}
	return NormalizeIdent(strings.TrimSpace(a.Text)), true
}

// NamedArgIndex returns the index of the explicit named argument called name.
// Names compare in NFC form.
func NamedArgIndex(args []Argument, name string) (int, bool) {
	name = NormalizeIdent(name)
	for i, a := range args {
		if a.IsNamed() && NormalizeIdent(a.Name) == name {
			return i, true
		}
	}
	return -1, false
}

// NormalizeIdent returns the NFC form of an identifier, the form rustc compares.
func NormalizeIdent(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

// IsIdentifier reports whether s is a plain identifier usable as a capture:
// not a keyword, not `_`, not raw.
func IsIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			!unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) {
			return false
		}
	}
	if _, kw := token.LookupKeyword(s); kw {
		return false
	}
	return true
}

// Classify infers kind and literal kind from expression text. It is used when
// the caller has no token stream (JSON batches); the Rust front end classifies
// from tokens instead.
func Classify(text string) (ExprKind, LitKind) {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return ExprComplex, LitNone
	case IsIdentifier(s):
		return ExprIdent, LitNone
	case s == "true" || s == "false":
		return ExprLiteral, LitBool
	case isQuoted(s, '"'):
		return ExprLiteral, LitString
	case strings.HasPrefix(s, "r") && isRawString(s[1:]):
		return ExprLiteral, LitRawString
	case isQuoted(s, '\''):
		return ExprLiteral, LitChar
	case s[0] >= '0' && s[0] <= '9' && isNumberText(s):
		return ExprLiteral, LitNumber
	case (strings.HasPrefix(s, "b") || strings.HasPrefix(s, "c")) && (isQuoted(s[1:], '"') || isQuoted(s[1:], '\'')):
		return ExprLiteral, LitOther
	}
	return ExprComplex, LitNone
}

// LitKindOf maps a literal token kind onto LitKind.
func LitKindOf(k token.Kind) LitKind {
	switch k {
	case token.StringLit:
		return LitString
	case token.RawStringLit:
		return LitRawString
	case token.CharLit:
		return LitChar
	case token.BoolLit:
		return LitBool
	case token.IntLit, token.FloatLit:
		return LitNumber
	case token.ByteLit, token.ByteStringLit, token.RawByteStringLit, token.CStringLit:
		return LitOther
	}
	return LitNone
}

func isQuoted(s string, q byte) bool {
	if len(s) < 2 || s[0] != q || s[len(s)-1] != q {
		return false
	}
	// a quote inside must be escaped
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case q:
			return false
		}
	}
	return true
}

func isRawString(s string) bool {
	hashes := 0
	for hashes < len(s) && s[hashes] == '#' {
		hashes++
	}
	rest := s[hashes:]
	closing := "\"" + strings.Repeat("#", hashes)
	return len(rest) >= 2 && rest[0] == '"' && strings.HasSuffix(rest, closing) && len(rest) >= len(closing)+1
}

func isNumberText(s string) bool {
	hex := len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	var prev rune
	for _, r := range s {
		switch {
		case r == '+' || r == '-':
			// знак только сразу после экспоненты: 1e-3, но не 1-2
			if hex || (prev != 'e' && prev != 'E') {
				return false
			}
		case r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
		prev = r
	}
	return !strings.Contains(s, "..")
}
