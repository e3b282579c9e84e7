package binding

import (
	"errors"
	"testing"

	"capfmt/internal/callsite"
	"capfmt/internal/fmtstr"
)

func args(texts ...string) []callsite.Argument {
	out := make([]callsite.Argument, 0, len(texts))
	for _, t := range texts {
		a := callsite.Argument{Text: t}
		// "name=expr" helper syntax for tests
		for i := 0; i < len(t); i++ {
			if t[i] == '=' {
				a.Name, a.Text = t[:i], t[i+1:]
				break
			}
		}
		a.Kind, a.Lit = callsite.Classify(a.Text)
		out = append(out, a)
	}
	return out
}

func resolve(t *testing.T, format string, a []callsite.Argument, scope callsite.Scope) *Resolution {
	t.Helper()
	fs, err := fmtstr.Parse(format, false)
	if err != nil {
		t.Fatalf("parse %q: %v", format, err)
	}
	res, err := Resolve(fs, a, scope)
	if err != nil {
		t.Fatalf("resolve %q: %v", format, err)
	}
	return res
}

type want struct {
	ph   int
	use  Use
	slot SlotKind
	arg  int
}

func check(t *testing.T, res *Resolution, exp []want) {
	t.Helper()
	if len(res.Bindings) != len(exp) {
		t.Fatalf("expected %d bindings, got %d: %+v", len(exp), len(res.Bindings), res.Bindings)
	}
	for i, w := range exp {
		b := res.Bindings[i]
		if b.Placeholder != w.ph || b.Use != w.use || b.Slot != w.slot || b.Arg != w.arg {
			t.Errorf("binding %d = {ph:%d use:%v slot:%d arg:%d}, want %+v", i, b.Placeholder, b.Use, b.Slot, b.Arg, w)
		}
	}
}

func TestImplicitCounter(t *testing.T) {
	res := resolve(t, "{} {0} {}", args("a", "b"), nil)
	check(t, res, []want{
		{0, UseValue, SlotArg, 0},
		{1, UseValue, SlotArg, 0},
		{2, UseValue, SlotArg, 1},
	})
	if len(res.Uses[0]) != 2 || len(res.Uses[1]) != 1 {
		t.Fatalf("uses = %v", res.Uses)
	}
}

func TestStarPrecisionTakesSlotFirst(t *testing.T) {
	res := resolve(t, "Hello {} is {:.*}", args(`"x"`, "5", "local_f64"), nil)
	check(t, res, []want{
		{0, UseValue, SlotArg, 0},
		{1, UsePrecision, SlotArg, 1},
		{1, UseValue, SlotArg, 2},
	})
	if !res.Bindings[1].Star {
		t.Fatal("precision binding must be marked Star")
	}
}

func TestCountsAndNames(t *testing.T) {
	res := resolve(t, "{:1$} {v:>w$.p$}", args("a", "width", "w=width", "p=prec"), callsite.NewNameSet("v"))
	check(t, res, []want{
		{0, UseValue, SlotArg, 0},
		{0, UseWidth, SlotArg, 1},
		{1, UseValue, SlotCapture, -1},
		{1, UseWidth, SlotArg, 2},
		{1, UsePrecision, SlotArg, 3},
	})
	if res.Bindings[2].Name != "v" {
		t.Fatalf("capture name = %q", res.Bindings[2].Name)
	}
}

func TestNamedArgumentsAreIndexable(t *testing.T) {
	res := resolve(t, "{1} {x}", args("a", "x=b"), nil)
	check(t, res, []want{
		{0, UseValue, SlotArg, 1},
		{1, UseValue, SlotArg, 1},
	})
}

func TestNamedArgumentShadowsScope(t *testing.T) {
	res := resolve(t, "{x}", args("x=y"), callsite.NewNameSet("x"))
	check(t, res, []want{{0, UseValue, SlotArg, 0}})
}

func TestUnresolved(t *testing.T) {
	cases := []struct {
		format string
		args   []callsite.Argument
	}{
		{"{} {}", args("a")},
		{"{3}", args("a")},
		{"{missing}", args("a")},
		{"{:.*}", args("a")},
		{"{:w$}", args("a")},
	}
	for _, tc := range cases {
		fs, err := fmtstr.Parse(tc.format, false)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.format, err)
		}
		_, err = Resolve(fs, tc.args, callsite.NewNameSet())
		if !errors.Is(err, ErrUnresolved) {
			t.Errorf("%q: expected ErrUnresolved, got %v", tc.format, err)
			continue
		}
		var ue *UnresolvedError
		if !errors.As(err, &ue) {
			t.Errorf("%q: expected *UnresolvedError", tc.format)
		}
	}
}
