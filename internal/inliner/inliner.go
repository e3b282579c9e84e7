// Package inliner runs the format-argument inlining pipeline for one call site:
// parse the format string, resolve bindings, decide eligibility and rewrite.
package inliner

import (
	"errors"
	"fmt"

	"capfmt/internal/binding"
	"capfmt/internal/callsite"
	"capfmt/internal/eligibility"
	"capfmt/internal/fmtstr"
	"capfmt/internal/rewrite"
)

// Options is eligibility.Options; kept as a distinct name for callers.
type Options = eligibility.Options

// DefaultOptions allows mixed inlined and explicit arguments.
func DefaultOptions() Options { return eligibility.DefaultOptions() }

// Status is the overall outcome for a call site.
type Status uint8

const (
	Unchanged Status = iota
	Rewritten
)

func (s Status) String() string {
	if s == Rewritten {
		return "rewritten"
	}
	return "unchanged"
}

// Outcome describes what happened to a call site. For Unchanged outcomes
// Literal and Args are the originals.
type Outcome struct {
	Status  Status
	Literal string
	Args    []callsite.Argument
	Removed []int

	Format    *fmtstr.FormatString
	Bindings  []binding.Binding
	Decisions []eligibility.Decision
	// Reason summarizes why an Unchanged call was left alone when a single
	// reason applies (opaque source, version gate, ...).
	Reason eligibility.Reason
}

// Changed reports whether the call was rewritten.
func (o Outcome) Changed() bool { return o.Status == Rewritten }

// Inline analyzes cs. Malformed format strings and unresolved references
// return an Unchanged outcome together with an error wrapping
// fmtstr.ErrMalformed or binding.ErrUnresolved. A literal whose escapes
// decode to braces is treated like an opaque format.
func Inline(cs *callsite.CallSite, opts Options) (Outcome, error) {
	out := Outcome{Status: Unchanged, Literal: cs.Format.Text, Args: cs.Args}

	if cs.Format.Opaque {
		out.Reason = eligibility.ReasonOpaque
		out.Decisions = eligibility.Opaque(len(cs.Args))
		return out, nil
	}

	fs, err := fmtstr.Parse(cs.Format.Text, cs.Format.Raw)
	if errors.Is(err, fmtstr.ErrEscapedBrace) {
		out.Reason = eligibility.ReasonOpaque
		out.Decisions = eligibility.Opaque(len(cs.Args))
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("%s!: %w", cs.Macro, err)
	}
	out.Format = fs

	res, err := binding.Resolve(fs, cs.Args, cs.Scope)
	if err != nil {
		return out, fmt.Errorf("%s!: %w", cs.Macro, err)
	}
	out.Bindings = res.Bindings

	decisions := eligibility.Decide(cs, res, opts)
	out.Decisions = decisions
	out.Reason = commonReason(decisions)

	r := rewrite.Apply(fs, cs.Args, res, decisions)
	if !r.Changed {
		return out, nil
	}
	out.Status = Rewritten
	out.Literal = r.Literal
	out.Args = r.Args
	out.Removed = r.Removed
	out.Reason = eligibility.ReasonNone
	return out, nil
}

// commonReason returns the reason shared by every KeepExplicit decision, or
// ReasonNone when they differ or none exist.
func commonReason(ds []eligibility.Decision) eligibility.Reason {
	reason := eligibility.ReasonNone
	for _, d := range ds {
		if d.Verdict != eligibility.KeepExplicit {
			continue
		}
		if reason == eligibility.ReasonNone {
			reason = d.Reason
		} else if reason != d.Reason {
			return eligibility.ReasonNone
		}
	}
	return reason
}
