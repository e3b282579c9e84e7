// Package rewrite regenerates a format string and its argument list from
// eligibility decisions.
package rewrite

import (
	"sort"
	"strconv"
	"strings"

	"capfmt/internal/binding"
	"capfmt/internal/callsite"
	"capfmt/internal/eligibility"
	"capfmt/internal/fmtstr"
)

// Result is the rewritten call. When Changed is false Literal equals the
// original text byte for byte and Args is the original slice.
type Result struct {
	Changed bool
	Literal string
	Args    []callsite.Argument
	// Removed lists original indices of dropped arguments, ascending.
	Removed []int
}

type splice struct {
	r    fmtstr.Range
	text string
}

// Apply rewrites fs. decisions must be parallel to res.Bindings.
func Apply(fs *fmtstr.FormatString, args []callsite.Argument, res *binding.Resolution, decisions []eligibility.Decision) Result {
	removed := removableArgs(args, res, decisions)
	if len(removed) == 0 {
		return Result{Literal: fs.Source, Args: args}
	}

	newIndex := make([]int, len(args))
	kept := make([]callsite.Argument, 0, len(args)-len(removed))
	next := 0
	for i, a := range args {
		if removed[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = next
		next++
		kept = append(kept, a)
	}

	splices := make([]splice, 0, len(res.Bindings))
	for bi, b := range res.Bindings {
		if b.Slot != binding.SlotArg {
			continue
		}
		d := decisions[bi]
		switch {
		case d.Verdict == eligibility.Inline:
			splices = append(splices, inlineSplice(b, d.Ident))
		case b.Ref.Kind == fmtstr.RefIndex && newIndex[b.Arg] != b.Ref.Index:
			splices = append(splices, splice{r: b.Ref.Range, text: strconv.Itoa(newIndex[b.Arg])})
		}
	}

	return Result{
		Changed: true,
		Literal: applySplices(fs.Source, splices),
		Args:    kept,
		Removed: removedList(removed),
	}
}

// inlineSplice puts ident where the reference was. Implicit value refs insert
// at their empty range; `.*` becomes `.ident$`; counted refs keep their `$`.
func inlineSplice(b binding.Binding, ident string) splice {
	if b.Star {
		return splice{r: b.Ref.Range, text: ident + "$"}
	}
	return splice{r: b.Ref.Range, text: ident}
}

// removableArgs marks arguments whose every use is inlined. Unused arguments
// are never removed.
func removableArgs(args []callsite.Argument, res *binding.Resolution, decisions []eligibility.Decision) map[int]bool {
	out := make(map[int]bool)
	for i := range args {
		if !res.ArgUsed(i) {
			continue
		}
		all := true
		for _, bi := range res.Uses[i] {
			if decisions[bi].Verdict != eligibility.Inline {
				all = false
				break
			}
		}
		if all {
			out[i] = true
		}
	}
	return out
}

func removedList(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func applySplices(src string, splices []splice) string {
	sort.SliceStable(splices, func(i, j int) bool {
		return splices[i].r.Start < splices[j].r.Start
	})
	var sb strings.Builder
	sb.Grow(len(src) + 16*len(splices))
	last := 0
	for _, sp := range splices {
		sb.WriteString(src[last:sp.r.Start])
		sb.WriteString(sp.text)
		last = sp.r.End
	}
	sb.WriteString(src[last:])
	return sb.String()
}
