// Package eligibility decides, per argument slot, whether a bound argument can
// be rewritten into the format string as a captured identifier.
package eligibility

import (
	"capfmt/internal/binding"
	"capfmt/internal/callsite"
)

// Verdict is the outcome for one binding.
type Verdict uint8

const (
	KeepExplicit Verdict = iota
	Inline
	Captured
)

func (v Verdict) String() string {
	switch v {
	case Inline:
		return "inline"
	case Captured:
		return "captured"
	default:
		return "keep"
	}
}

// Reason explains a KeepExplicit verdict.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonOpaque
	ReasonNotIdentifier
	ReasonConflict
	ReasonBelowMinimumVersion
	ReasonLegacyEdition
	// ReasonMixed demotes an otherwise inlinable slot when mixing is disallowed.
	ReasonMixed
)

var reasonText = map[Reason]string{
	ReasonNone:                "",
	ReasonOpaque:              "format string is not a literal",
	ReasonNotIdentifier:       "argument is not a plain identifier",
	ReasonConflict:            "identifier is also the name of another argument",
	ReasonBelowMinimumVersion: "inline captures need Rust 1.58",
	ReasonLegacyEdition:       "this macro does not capture before the 2021 edition",
	ReasonMixed:               "other arguments of the call cannot be inlined",
}

func (r Reason) String() string { return reasonText[r] }

// Decision is the verdict for one binding. Ident is set for Inline and
// Captured.
type Decision struct {
	Verdict Verdict
	Reason  Reason
	Ident   string
}

// Options tune the checker.
type Options struct {
	// AllowMixed permits rewriting a call where some arguments stay explicit.
	AllowMixed bool
}

// DefaultOptions matches the lint's default configuration.
func DefaultOptions() Options {
	return Options{AllowMixed: true}
}

// Decide returns one decision per binding of res, in the same order. Every
// binding of one argument slot receives the same decision.
func Decide(cs *callsite.CallSite, res *binding.Resolution, opts Options) []Decision {
	slots := decideSlots(cs, res)

	out := make([]Decision, len(res.Bindings))
	for i, b := range res.Bindings {
		if b.Slot == binding.SlotCapture {
			out[i] = Decision{Verdict: Captured, Ident: b.Name}
			continue
		}
		out[i] = slots[b.Arg]
	}

	if !opts.AllowMixed && hasKeep(out) {
		for i := range out {
			if out[i].Verdict == Inline {
				out[i] = Decision{Verdict: KeepExplicit, Reason: ReasonMixed}
			}
		}
	}
	return out
}

// Opaque is the decision set for a call whose format is not a literal.
func Opaque(n int) []Decision {
	out := make([]Decision, n)
	for i := range out {
		out[i] = Decision{Verdict: KeepExplicit, Reason: ReasonOpaque}
	}
	return out
}

func hasKeep(ds []Decision) bool {
	for _, d := range ds {
		if d.Verdict == KeepExplicit {
			return true
		}
	}
	return false
}

// decideSlots computes the per-argument decision. Rules apply in order:
// not an identifier, conflict with a kept named argument, version gate, edition
// gate. Conflicts are resolved to a fixed point: a slot demoted for a conflict
// stays in the argument list and may in turn block another slot.
func decideSlots(cs *callsite.CallSite, res *binding.Resolution) []Decision {
	slots := make([]Decision, len(cs.Args))
	for i, a := range cs.Args {
		if !res.ArgUsed(i) {
			slots[i] = Decision{Verdict: KeepExplicit, Reason: ReasonNone}
			continue
		}
		ident, ok := a.Ident()
		if !ok {
			slots[i] = Decision{Verdict: KeepExplicit, Reason: ReasonNotIdentifier}
			continue
		}
		slots[i] = Decision{Verdict: Inline, Ident: ident}
	}

	for changed := true; changed; {
		changed = false
		for i := range slots {
			if slots[i].Verdict != Inline {
				continue
			}
			if conflicts(cs, slots, i) {
				slots[i] = Decision{Verdict: KeepExplicit, Reason: ReasonConflict}
				changed = true
			}
		}
	}

	gate := ReasonNone
	switch {
	case cs.MSRV.Less(callsite.CaptureStabilized):
		gate = ReasonBelowMinimumVersion
	case cs.CapturesDisabledByEdition():
		gate = ReasonLegacyEdition
	}
	if gate != ReasonNone {
		for i := range slots {
			if slots[i].Verdict == Inline {
				slots[i] = Decision{Verdict: KeepExplicit, Reason: gate}
			}
		}
	}
	return slots
}

// conflicts reports whether inlining slot i as {ident} would instead bind to
// another named argument that stays in the call with a different expression.
func conflicts(cs *callsite.CallSite, slots []Decision, i int) bool {
	ident := slots[i].Ident
	for j, other := range cs.Args {
		if j == i || !other.IsNamed() || callsite.NormalizeIdent(other.Name) != ident {
			continue
		}
		if slots[j].Verdict == Inline {
			// the other argument leaves the list as well
			continue
		}
		if otherIdent, ok := other.Ident(); ok && otherIdent == ident {
			continue
		}
		return true
	}
	return false
}
