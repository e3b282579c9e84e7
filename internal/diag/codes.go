package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Format-macro lints
	LintInfo                Code = 1000
	LintUninlinedFormatArgs Code = 1001
	LintPrintLiteral        Code = 1002
	LintWriteLiteral        Code = 1003
	LintPrintWithNewline    Code = 1004
	LintWriteWithNewline    Code = 1005
	LintPrintlnEmptyString  Code = 1006
	LintWritelnEmptyString  Code = 1007
	LintUseDebug            Code = 1008
	LintPrintStdout         Code = 1009
	LintPrintStderr         Code = 1010

	// Inliner analysis outcomes surfaced as notes
	InlInfo                  Code = 2000
	InlMalformedFormatString Code = 2001
	InlUnresolvedArgument    Code = 2002
	InlOpaqueSource          Code = 2003
	InlBelowMinimumVersion   Code = 2004

	// Front end
	LexInfo                     Code = 3000
	LexUnterminatedString       Code = 3001
	LexUnterminatedBlockComment Code = 3002
	LexUnknownChar              Code = 3003
	SynUnclosedMacroCall        Code = 3101

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Configuration
	CfgInfo          Code = 5000
	CfgInvalidConfig Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LintInfo:                    "Lint information",
		LintUninlinedFormatArgs:     "variables can be used directly in the format string",
		LintPrintLiteral:            "printing a literal with a format string",
		LintWriteLiteral:            "writing a literal with a format string",
		LintPrintWithNewline:        "using print!() with a format string that ends in a single newline",
		LintWriteWithNewline:        "using write!() with a format string that ends in a single newline",
		LintPrintlnEmptyString:      "using println!(\"\") with an empty string",
		LintWritelnEmptyString:      "using writeln!(buf, \"\") with an empty string",
		LintUseDebug:                "use of Debug-based formatting",
		LintPrintStdout:             "printing on stdout",
		LintPrintStderr:             "printing on stderr",
		InlInfo:                     "Inliner information",
		InlMalformedFormatString:    "malformed format string",
		InlUnresolvedArgument:       "format argument cannot be resolved",
		InlOpaqueSource:             "format string is not a literal",
		InlBelowMinimumVersion:      "captured identifiers need a newer Rust version",
		LexInfo:                     "Lexical information",
		LexUnterminatedString:       "unterminated string literal",
		LexUnterminatedBlockComment: "unterminated block comment",
		LexUnknownChar:              "unknown character",
		SynUnclosedMacroCall:        "unclosed macro invocation",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "disk cache error",
		CfgInfo:                     "Configuration information",
		CfgInvalidConfig:            "invalid configuration",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}

	// lintNames are the clippy-compatible names used in config files and allow attributes.
	lintNames = map[Code]string{
		LintUninlinedFormatArgs: "uninlined_format_args",
		LintPrintLiteral:        "print_literal",
		LintWriteLiteral:        "write_literal",
		LintPrintWithNewline:    "print_with_newline",
		LintWriteWithNewline:    "write_with_newline",
		LintPrintlnEmptyString:  "println_empty_string",
		LintWritelnEmptyString:  "writeln_empty_string",
		LintUseDebug:            "use_debug",
		LintPrintStdout:         "print_stdout",
		LintPrintStderr:         "print_stderr",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// LintName returns the snake_case lint name, or "" for non-lint codes.
func (c Code) LintName() string {
	return lintNames[c]
}

// LintCodes returns every lint code in ascending order.
func LintCodes() []Code {
	out := make([]Code, 0, len(lintNames))
	for c := LintUninlinedFormatArgs; c <= LintPrintStderr; c++ {
		if _, ok := lintNames[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// LookupLint finds a lint code by name; a "clippy::" prefix is accepted.
func LookupLint(name string) (Code, bool) {
	if len(name) > len("clippy::") && name[:len("clippy::")] == "clippy::" {
		name = name[len("clippy::"):]
	}
	for code, n := range lintNames {
		if n == name {
			return code, true
		}
	}
	return UnknownCode, false
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
