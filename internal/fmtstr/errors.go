package fmtstr

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel behind every parse failure.
var ErrMalformed = errors.New("malformed format string")

// SyntaxError locates a parse failure inside the literal body.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at byte %d: %s", ErrMalformed, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformed }

// ErrEscapedBrace reports an escape sequence in a non-raw literal that
// decodes to `{` or `}`. The compiler sees a real brace there, so the
// literal cannot be rewritten textually.
var ErrEscapedBrace = errors.New("escape sequence decodes to a brace")

// EscapeError locates an escape that decodes to a brace.
type EscapeError struct {
	Offset int
	Seq    string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("%s at byte %d: `%s`", ErrEscapedBrace, e.Offset, e.Seq)
}

func (e *EscapeError) Unwrap() error { return ErrEscapedBrace }
