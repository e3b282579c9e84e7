package callsite

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// RustVersion is a minimum supported Rust version. The zero value means
// "no constraint".
type RustVersion struct {
	canonical string // semver form, "v1.58.0"
}

// CaptureStabilized is the release that stabilized implicit format captures.
var CaptureStabilized = MustParseRustVersion("1.58")

// ParseRustVersion accepts "1", "1.58", "1.58.1", with an optional "v" prefix.
func ParseRustVersion(s string) (RustVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RustVersion{}, nil
	}
	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return RustVersion{}, fmt.Errorf("invalid rust version %q", s)
	}
	return RustVersion{canonical: semver.Canonical(v)}, nil
}

// MustParseRustVersion is ParseRustVersion that panics on error.
func MustParseRustVersion(s string) RustVersion {
	v, err := ParseRustVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v RustVersion) IsZero() bool { return v.canonical == "" }

// Less reports v < other. A zero version is never less than anything.
func (v RustVersion) Less(other RustVersion) bool {
	if v.IsZero() || other.IsZero() {
		return false
	}
	return semver.Compare(v.canonical, other.canonical) < 0
}

func (v RustVersion) String() string {
	return strings.TrimPrefix(v.canonical, "v")
}

// MarshalText renders the version without the "v" prefix.
func (v RustVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *RustVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseRustVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Edition is a Rust edition year.
type Edition uint16

const (
	EditionUnknown Edition = 0
	Edition2015    Edition = 2015
	Edition2018    Edition = 2018
	Edition2021    Edition = 2021
	Edition2024    Edition = 2024
)

// DefaultEdition applies when neither config nor flags name one.
const DefaultEdition = Edition2021

func ParseEdition(s string) (Edition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EditionUnknown, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return EditionUnknown, fmt.Errorf("invalid edition %q", s)
	}
	switch e := Edition(n); e {
	case Edition2015, Edition2018, Edition2021, Edition2024:
		return e, nil
	}
	return EditionUnknown, fmt.Errorf("unsupported edition %q", s)
}

func (e Edition) String() string {
	if e == EditionUnknown {
		return ""
	}
	return strconv.Itoa(int(e))
}

func (e Edition) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Edition) UnmarshalText(b []byte) error {
	parsed, err := ParseEdition(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
