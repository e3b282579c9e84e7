// Package lints checks format-family macro calls found by the front end and
// reports clippy-compatible diagnostics, most of them with fixes.
//
// uninlined_format_args runs the inliner on every supported macro. The
// remaining lints only look at print!/println!/eprint!/eprintln! and
// write!/writeln!.
package lints
