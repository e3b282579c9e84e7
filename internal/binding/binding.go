// Package binding pairs every argument reference in a parsed format string
// with the call argument (or ambient capture) it denotes.
package binding

import (
	"errors"
	"fmt"

	"capfmt/internal/callsite"
	"capfmt/internal/fmtstr"
)

// ErrUnresolved is the sentinel behind every resolution failure.
var ErrUnresolved = errors.New("unresolved format argument")

// UnresolvedError names the reference that could not be bound.
type UnresolvedError struct {
	Ref    fmtstr.ArgRef
	Offset int
	// Index is the counter value for implicit references.
	Index int
}

func (e *UnresolvedError) Error() string {
	switch e.Ref.Kind {
	case fmtstr.RefName:
		return fmt.Sprintf("%s: there is no argument named `%s` (byte %d)", ErrUnresolved, e.Ref.Name, e.Offset)
	default:
		return fmt.Sprintf("%s: invalid reference to positional argument %d (byte %d)", ErrUnresolved, e.Index, e.Offset)
	}
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// Use is the role a reference plays inside its placeholder.
type Use uint8

const (
	UseValue Use = iota
	UseWidth
	UsePrecision
)

func (u Use) String() string {
	switch u {
	case UseWidth:
		return "width"
	case UsePrecision:
		return "precision"
	default:
		return "value"
	}
}

// SlotKind distinguishes explicit arguments from ambient captures.
type SlotKind uint8

const (
	SlotArg SlotKind = iota
	SlotCapture
)

// Binding is one resolved reference.
type Binding struct {
	Placeholder int // index into FormatString.Placeholders()
	Use         Use
	Ref         fmtstr.ArgRef
	// Star marks a `.*` precision.
	Star bool
	Slot SlotKind
	// Arg is the argument index for SlotArg, -1 otherwise.
	Arg int
	// Name is the captured identifier for SlotCapture.
	Name string
}

// Resolution holds all bindings of one call in placeholder order: for each
// placeholder the precision (when `.*`), then the value, then width and
// explicit precision references.
type Resolution struct {
	Bindings []Binding
	// Uses lists binding indices per argument slot.
	Uses [][]int
}

// ArgUsed reports whether argument i is referenced at all.
func (r *Resolution) ArgUsed(i int) bool {
	return i >= 0 && i < len(r.Uses) && len(r.Uses[i]) > 0
}

// Resolve binds the references of fs against the call's arguments and scope.
// Implicit references and `.*` precisions draw from a counter starting at 0;
// a `.*` takes its slot before the value of the same placeholder.
func Resolve(fs *fmtstr.FormatString, args []callsite.Argument, scope callsite.Scope) (*Resolution, error) {
	res := &Resolution{Uses: make([][]int, len(args))}
	next := 0

	for pi, ph := range fs.Placeholders() {
		if ph.Precision.Kind == fmtstr.CountStar {
			b, err := bindIndex(pi, UsePrecision, ph.Precision.Ref, next, args)
			if err != nil {
				return nil, err
			}
			b.Star = true
			next++
			res.add(b)
		}

		var (
			b   Binding
			err error
		)
		switch ph.Arg.Kind {
		case fmtstr.RefImplicit:
			b, err = bindIndex(pi, UseValue, ph.Arg, next, args)
			next++
		case fmtstr.RefIndex:
			b, err = bindIndex(pi, UseValue, ph.Arg, ph.Arg.Index, args)
		case fmtstr.RefName:
			b, err = bindName(pi, UseValue, ph.Arg, args, scope)
		}
		if err != nil {
			return nil, err
		}
		res.add(b)

		for _, c := range []struct {
			use   Use
			count fmtstr.Count
		}{{UseWidth, ph.Width}, {UsePrecision, ph.Precision}} {
			if c.count.Kind != fmtstr.CountRef {
				continue
			}
			if c.count.Ref.Kind == fmtstr.RefIndex {
				b, err = bindIndex(pi, c.use, c.count.Ref, c.count.Ref.Index, args)
			} else {
				b, err = bindName(pi, c.use, c.count.Ref, args, scope)
			}
			if err != nil {
				return nil, err
			}
			res.add(b)
		}
	}
	return res, nil
}

func (r *Resolution) add(b Binding) {
	idx := len(r.Bindings)
	r.Bindings = append(r.Bindings, b)
	if b.Slot == SlotArg {
		r.Uses[b.Arg] = append(r.Uses[b.Arg], idx)
	}
}

func bindIndex(pi int, use Use, ref fmtstr.ArgRef, index int, args []callsite.Argument) (Binding, error) {
	if index < 0 || index >= len(args) {
		return Binding{}, &UnresolvedError{Ref: ref, Offset: ref.Range.Start, Index: index}
	}
	return Binding{Placeholder: pi, Use: use, Ref: ref, Slot: SlotArg, Arg: index}, nil
}

func bindName(pi int, use Use, ref fmtstr.ArgRef, args []callsite.Argument, scope callsite.Scope) (Binding, error) {
	if i, ok := callsite.NamedArgIndex(args, ref.Name); ok {
		return Binding{Placeholder: pi, Use: use, Ref: ref, Slot: SlotArg, Arg: i}, nil
	}
	name := callsite.NormalizeIdent(ref.Name)
	if scope != nil && scope.Has(name) {
		return Binding{Placeholder: pi, Use: use, Ref: ref, Slot: SlotCapture, Arg: -1, Name: name}, nil
	}
	return Binding{}, &UnresolvedError{Ref: ref, Offset: ref.Range.Start}
}
