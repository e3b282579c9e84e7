// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"capfmt/internal/fmtstr"
	"capfmt/internal/frontend"
	"capfmt/internal/source"
)

// CheckCallInvariants runs span invariants on a scanned file:
// 1) every call group lies inside the file and after the macro name
// 2) elements are ordered, disjoint and inside the group
// 3) argument and format spans sit inside their elements
func CheckCallInvariants(res *frontend.Result) error {
	if res == nil || res.File == nil {
		return fmt.Errorf("nil scan result")
	}
	size, err := safecast.Conv[uint32](len(res.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for ci, c := range res.Calls {
		if c.Site == nil {
			return fmt.Errorf("call %d: nil call site", ci)
		}
		if c.Group.File != res.File.ID || c.Group.End > size {
			return fmt.Errorf("call %d: group %v outside file", ci, c.Group)
		}
		if c.Name.End > c.Group.Start {
			return fmt.Errorf("call %d: name %v after group %v", ci, c.Name, c.Group)
		}
		if !c.Site.Span.Contains(c.Group) {
			return fmt.Errorf("call %d: site span %v does not cover group %v", ci, c.Site.Span, c.Group)
		}
		if c.FormatIndex >= len(c.Elements) {
			return fmt.Errorf("call %d: format index %d of %d elements", ci, c.FormatIndex, len(c.Elements))
		}
		if want := len(c.Elements) - c.FormatIndex - 1; len(c.Site.Args) != want {
			return fmt.Errorf("call %d: %d args, want %d", ci, len(c.Site.Args), want)
		}

		var prev source.Span
		for ei, el := range c.Elements {
			if !c.Group.Contains(el.Span) {
				return fmt.Errorf("call %d: element %d %v outside group %v", ci, ei, el.Span, c.Group)
			}
			if ei > 0 && el.Span.Start < prev.End {
				return fmt.Errorf("call %d: element %d overlaps the previous one", ci, ei)
			}
			if !el.Remove.Contains(el.Span) {
				return fmt.Errorf("call %d: removal %v does not cover element %v", ci, el.Remove, el.Span)
			}
			if got := string(res.File.Content[el.Span.Start:el.Span.End]); got != el.Text {
				return fmt.Errorf("call %d: element %d text %q, source has %q", ci, ei, el.Text, got)
			}
			prev = el.Span
		}

		f := c.Site.Format
		if !f.Opaque {
			if !c.FormatElement().Span.Contains(f.Span) || !f.Span.Contains(f.Inner) {
				return fmt.Errorf("call %d: format spans %v/%v outside element", ci, f.Span, f.Inner)
			}
			if got := string(res.File.Content[f.Inner.Start:f.Inner.End]); got != f.Text {
				return fmt.Errorf("call %d: format text %q, source has %q", ci, f.Text, got)
			}
		}
		for ai, a := range c.Site.Args {
			if !c.ArgElement(ai).Span.Contains(a.Span) || !a.Span.Contains(a.ExprSpan) {
				return fmt.Errorf("call %d: arg %d spans %v/%v outside element", ci, ai, a.Span, a.ExprSpan)
			}
		}
	}
	return nil
}

// CheckFormatInvariants verifies that the segments of fs tile its source and
// that every placeholder sub-range lies inside its segment.
func CheckFormatInvariants(fs *fmtstr.FormatString) error {
	if fs == nil {
		return fmt.Errorf("nil format string")
	}
	pos := 0
	for i, seg := range fs.Segments {
		if seg.Range.Start != pos || seg.Range.End < seg.Range.Start {
			return fmt.Errorf("segment %d range %v does not continue at %d", i, seg.Range, pos)
		}
		pos = seg.Range.End
		ph := seg.Placeholder
		if ph == nil {
			continue
		}
		if ph.Range != seg.Range {
			return fmt.Errorf("segment %d: placeholder range %v differs from %v", i, ph.Range, seg.Range)
		}
		for _, r := range []fmtstr.Range{ph.Arg.Range, ph.Width.Range, ph.Precision.Range, ph.Width.Ref.Range, ph.Precision.Ref.Range} {
			if r.Empty() && r.Start == 0 {
				continue
			}
			if r.Start < seg.Range.Start || r.End > seg.Range.End {
				return fmt.Errorf("segment %d: sub-range %v outside %v", i, r, seg.Range)
			}
		}
	}
	if pos != len(fs.Source) {
		return fmt.Errorf("segments end at %d, source has %d bytes", pos, len(fs.Source))
	}
	if fs.String() != fs.Source {
		return fmt.Errorf("segments do not reproduce the source")
	}
	return nil
}
