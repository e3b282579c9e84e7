// Package frontend finds format-family macro invocations in Rust source.
//
// It is not a Rust parser. The scanner walks the token stream, pairs
// delimiters and keeps just enough item context to answer the questions the
// lints ask: which `clippy::msrv` applies, which lints are allowed by
// attributes, and whether the call sits inside an `impl Debug for` block.
// `macro_rules!` bodies are skipped since their format strings are templates.
package frontend
