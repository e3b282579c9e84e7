package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	tests := []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
	}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) = %q without color", v, got)
		}
	}
}

func TestColoredEscapes(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()

	got := Colored("1.2.3-dev")
	if got == "1.2.3-dev" {
		t.Fatalf("expected colored output, got %q", got)
	}
	if got[len(got)-4:] != "-dev" {
		t.Fatalf("pre-release suffix must stay plain: %q", got)
	}
}

func BenchmarkColored(b *testing.B) {
	for b.Loop() {
		_ = Colored(Version)
	}
}
