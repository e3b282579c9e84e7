// Package token defines lexical token kinds and trivia for Rust sources.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Raw identifiers keep their `r#` prefix in Text; Token.Name strips it.
//   - Lifetimes ('a) and char literals ('a') are distinct kinds.
//   - Comments and whitespace never appear in the main token stream; they are
//     attached to the next significant token as Leading trivia.
package token
