package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/lints"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
msrv = "1.57"
edition = "2018"
allow-mixed-uninlined-format-args = false
exclude = ["vendor", "target"]

[lints]
print_stdout = "warn"
"clippy::use_debug" = "deny"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MSRV.String() != "1.57.0" || cfg.Edition != callsite.Edition2018 {
		t.Fatalf("msrv/edition = %s/%s", cfg.MSRV, cfg.Edition)
	}
	if cfg.Lints.Inliner.AllowMixed {
		t.Fatal("allow-mixed should be false")
	}
	if cfg.Lints.Levels[diag.LintPrintStdout] != lints.Warn || cfg.Lints.Levels[diag.LintUseDebug] != lints.Deny {
		t.Fatalf("levels = %v", cfg.Lints.Levels)
	}
	if cfg.Lints.Levels[diag.LintPrintLiteral] != lints.Warn {
		t.Fatal("unset lints keep their default level")
	}
	if !cfg.Excluded("vendor/x/lib.rs") || cfg.Excluded("src/vendor.rs") {
		t.Fatal("exclude prefixes mismatch")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "colour = true\n"},
		{"bad msrv", "msrv = \"one\"\n"},
		{"bad edition", "edition = \"2020\"\n"},
		{"unknown lint", "[lints]\nnever_loop = \"warn\"\n"},
		{"bad level", "[lints]\nprint_literal = \"loud\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "msrv = \"1.60\"\n")
	nested := filepath.Join(root, "crates", "a", "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "main.rs")
	if err := os.WriteFile(file, []byte("fn main() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(file)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != filepath.Join(root, FileName) || cfg.MSRV.String() != "1.60.0" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	cfg, err = Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover without file: %v", err)
	}
	if cfg.Path != "" || cfg.Edition != callsite.DefaultEdition {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestOverridesAndFingerprint(t *testing.T) {
	cfg := Default()
	before := cfg.Fingerprint()
	if before != Default().Fingerprint() {
		t.Fatal("fingerprint must be deterministic")
	}
	if err := cfg.Apply(Overrides{MSRV: "1.56", Lints: map[string]string{"print_stderr": "warn"}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.MSRV.String() != "1.56.0" || cfg.Lints.Levels[diag.LintPrintStderr] != lints.Warn {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Fingerprint() == before {
		t.Fatal("fingerprint did not change")
	}
	if err := cfg.Apply(Overrides{Edition: "1999"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
