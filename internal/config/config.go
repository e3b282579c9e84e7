// Package config loads capfmt.toml and merges command line overrides.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"

	"capfmt/internal/callsite"
	"capfmt/internal/diag"
	"capfmt/internal/lints"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type fileConfig struct {
	MSRV       string            `toml:"msrv"`
	Edition    string            `toml:"edition"`
	AllowMixed bool              `toml:"allow-mixed-uninlined-format-args"`
	Exclude    []string          `toml:"exclude"`
	Lints      map[string]string `toml:"lints"`
}

// Config is the effective configuration of a run.
type Config struct {
	// Path is empty when no file was found.
	Path    string
	MSRV    callsite.RustVersion
	Edition callsite.Edition
	Lints   lints.Config
	// Exclude holds slash separated path prefixes skipped in directory walks.
	Exclude []string
}

// Default is the configuration used without capfmt.toml.
func Default() *Config {
	return &Config{
		Edition: callsite.DefaultEdition,
		Lints:   lints.DefaultConfig(),
		Exclude: []string{"target"},
	}
}

// Load decodes the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("msrv") {
		if cfg.MSRV, err = callsite.ParseRustVersion(fc.MSRV); err != nil {
			return nil, fmt.Errorf("%s: %w: msrv: %w", path, ErrInvalid, err)
		}
	}
	if meta.IsDefined("edition") {
		if cfg.Edition, err = callsite.ParseEdition(fc.Edition); err != nil {
			return nil, fmt.Errorf("%s: %w: edition: %w", path, ErrInvalid, err)
		}
	}
	if meta.IsDefined("allow-mixed-uninlined-format-args") {
		cfg.Lints.Inliner.AllowMixed = fc.AllowMixed
	}
	if meta.IsDefined("exclude") {
		cfg.Exclude = fc.Exclude
	}
	for name, level := range fc.Lints {
		code, ok := diag.LookupLint(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w: unknown lint %q", path, ErrInvalid, name)
		}
		lvl, err := lints.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: [lints].%s: %w", path, ErrInvalid, name, err)
		}
		cfg.Lints.Levels[code] = lvl
	}
	return cfg, nil
}

// Discover loads the nearest capfmt.toml above startDir, or the defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Overrides are command line values that win over the file.
type Overrides struct {
	MSRV      string
	Edition   string
	Lints     map[string]string
	WithNotes bool
}

// Apply merges o into c.
func (c *Config) Apply(o Overrides) error {
	var err error
	if o.MSRV != "" {
		if c.MSRV, err = callsite.ParseRustVersion(o.MSRV); err != nil {
			return fmt.Errorf("%w: --msrv: %w", ErrInvalid, err)
		}
	}
	if o.Edition != "" {
		if c.Edition, err = callsite.ParseEdition(o.Edition); err != nil {
			return fmt.Errorf("%w: --edition: %w", ErrInvalid, err)
		}
	}
	for name, level := range o.Lints {
		code, ok := diag.LookupLint(name)
		if !ok {
			return fmt.Errorf("%w: unknown lint %q", ErrInvalid, name)
		}
		lvl, err := lints.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
		}
		c.Lints.Levels[code] = lvl
	}
	c.Lints.WithNotes = c.Lints.WithNotes || o.WithNotes
	return nil
}

// Excluded reports whether rel, a path relative to the walk root, is skipped.
func (c *Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, prefix := range c.Exclude {
		prefix = strings.Trim(filepath.ToSlash(prefix), "/")
		if prefix == "" {
			continue
		}
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

// Fingerprint hashes everything that changes analysis results. Cached results
// are only reused under the same fingerprint.
func (c *Config) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "msrv=%s;edition=%s;mixed=%t;notes=%t;", c.MSRV, c.Edition, c.Lints.Inliner.AllowMixed, c.Lints.WithNotes)
	codes := make([]int, 0, len(c.Lints.Levels))
	for code := range c.Lints.Levels {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(h, "%d=%s;", code, c.Lints.Levels[diag.Code(code)])
	}
	return h.Sum64()
}
