package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_SubAndContains(t *testing.T) {
	outer := Span{File: 3, Start: 100, End: 120}
	inner := outer.Sub(2, 5)
	if inner != (Span{File: 3, Start: 102, End: 105}) {
		t.Fatalf("Sub() = %v", inner)
	}
	if !outer.Contains(inner) {
		t.Fatalf("expected %v to contain %v", outer, inner)
	}
	if inner.Contains(outer) {
		t.Fatalf("inner span must not contain outer")
	}
	if got := inner.ShiftRight(10); got != (Span{File: 3, Start: 112, End: 115}) {
		t.Fatalf("ShiftRight() = %v", got)
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Fatalf("zero-length span must be empty")
	}
}
