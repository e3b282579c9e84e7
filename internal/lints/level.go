package lints

import (
	"fmt"
	"strings"

	"capfmt/internal/diag"
	"capfmt/internal/frontend"
)

// Level is how a lint is reported.
type Level uint8

const (
	Allow Level = iota
	Warn
	Deny
)

func (l Level) String() string {
	switch l {
	case Warn:
		return "warn"
	case Deny:
		return "deny"
	default:
		return "allow"
	}
}

// ParseLevel accepts allow, warn and deny, plus the attribute spellings
// expect (allow) and forbid (deny).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow", "expect":
		return Allow, nil
	case "warn":
		return Warn, nil
	case "deny", "forbid":
		return Deny, nil
	}
	return Allow, fmt.Errorf("unknown lint level %q (want allow, warn or deny)", s)
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Severity maps a reported level onto a diagnostic severity.
func (l Level) Severity() diag.Severity {
	if l == Deny {
		return diag.SevError
	}
	return diag.SevWarning
}

// Levels holds the configured level of every lint code.
type Levels map[diag.Code]Level

// DefaultLevels enables the style lints and leaves the restriction group off.
func DefaultLevels() Levels {
	ls := make(Levels, len(diag.LintCodes()))
	for _, code := range diag.LintCodes() {
		ls[code] = Warn
	}
	for _, code := range lintGroups["restriction"] {
		ls[code] = Allow
	}
	return ls
}

func (ls Levels) Clone() Levels {
	out := make(Levels, len(ls))
	for k, v := range ls {
		out[k] = v
	}
	return out
}

// Effective applies attributes, outermost first, on top of the configured level.
func (ls Levels) Effective(code diag.Code, attrs []frontend.LintAttr) Level {
	level := ls[code]
	for _, a := range attrs {
		if !attrNames(a.Name, code) {
			continue
		}
		if l, err := ParseLevel(a.Level); err == nil {
			level = l
		}
	}
	return level
}

var lintGroups = map[string][]diag.Code{
	"style": {
		diag.LintUninlinedFormatArgs,
		diag.LintPrintLiteral,
		diag.LintWriteLiteral,
		diag.LintPrintWithNewline,
		diag.LintWriteWithNewline,
		diag.LintPrintlnEmptyString,
		diag.LintWritelnEmptyString,
	},
	"restriction": {
		diag.LintUseDebug,
		diag.LintPrintStdout,
		diag.LintPrintStderr,
	},
}

func init() {
	lintGroups["all"] = lintGroups["style"]
}

// attrNames reports whether an attribute path (`clippy::print_literal`,
// `clippy::style`) covers code. Only clippy-scoped names count.
func attrNames(path string, code diag.Code) bool {
	name, ok := strings.CutPrefix(path, "clippy::")
	if !ok {
		return false
	}
	if name == code.LintName() {
		return true
	}
	for _, c := range lintGroups[name] {
		if c == code {
			return true
		}
	}
	return false
}
