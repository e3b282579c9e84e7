// Package callsite describes a single format-macro invocation as seen by the
// inliner: the format source, the supplied arguments, the ambient scope and the
// language constraints (MSRV, edition) that apply at the call.
//
// Values are plain data. Front ends build them from Rust sources or JSON
// batches; the inliner never mutates them.
package callsite
