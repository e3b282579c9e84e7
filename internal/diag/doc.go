// Package diag defines the diagnostic model shared by the front end, the lint
// passes, the fix engine and the renderers.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Lint codes also carry the clippy-compatible lint name used by config
//     files and `#[allow(clippy::...)]` attributes.
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at.
//   - Notes – optional secondary spans, e.g. the arguments a fix removes.
//   - Fixes – optional Fix records with concrete TextEdits.
//
// # Fix suggestions
//
// A Fix carries a title, a kind, an applicability level and a list of
// TextEdits. OldText on an edit is a guard: the fix engine refuses to apply
// the edit when the file no longer contains that text at the span.
//
// # Emitting diagnostics
//
// Lint passes emit through a Reporter, usually via ReportWarning(...).
// WithNote(...).WithFixSuggestion(...).Emit(). BagReporter stores into a Bag,
// which supports sorting, deduplication and filtering.
//
// Package diag performs no IO and no formatting beyond the single-line golden
// form; rendering lives in internal/diagfmt and fix application in internal/fix.
package diag
