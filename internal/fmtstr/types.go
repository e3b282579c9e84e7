package fmtstr

import (
	"strconv"
	"strings"
)

// Range is a half-open byte range into FormatString.Source.
type Range struct {
	Start, End int
}

func (r Range) Len() int           { return r.End - r.Start }
func (r Range) Empty() bool        { return r.Start == r.End }
func (r Range) In(s string) string { return s[r.Start:r.End] }

// RefKind tells how a placeholder names its argument.
type RefKind uint8

const (
	RefImplicit RefKind = iota // {} : next argument
	RefIndex                   // {1}
	RefName                    // {name}
)

func (k RefKind) String() string {
	switch k {
	case RefIndex:
		return "index"
	case RefName:
		return "name"
	default:
		return "implicit"
	}
}

// ArgRef is a reference to a format argument. For implicit references Range is
// empty and marks the insertion point for an identifier.
type ArgRef struct {
	Kind  RefKind
	Index int
	Name  string
	Range Range
}

func (r ArgRef) String() string {
	switch r.Kind {
	case RefIndex:
		return strconv.Itoa(r.Index)
	case RefName:
		return r.Name
	default:
		return ""
	}
}

// CountKind is the shape of a width or precision.
type CountKind uint8

const (
	CountNone    CountKind = iota
	CountLiteral           // 5
	CountRef               // 1$ or name$
	CountStar              // .* (precision only)
)

// Count is a width or precision. Range covers the count text ("5", "w$", "*").
type Count struct {
	Kind    CountKind
	Literal int
	Ref     ArgRef
	Range   Range
}

// IsRef reports whether the count takes its value from an argument.
func (c Count) IsRef() bool { return c.Kind == CountRef || c.Kind == CountStar }

// Placeholder is one `{...}` in the format string.
type Placeholder struct {
	Arg       ArgRef
	Width     Count
	Precision Count

	// Spec is the raw text after ':' (fill, align, sign, flags, counts, type);
	// empty when there is no ':'.
	Spec      string
	HasColon  bool
	Fill      rune
	Align     byte
	Sign      byte
	Alternate bool
	ZeroPad   bool

	// Type is the formatting trait: "" (Display), "?", "x?", "X?", "x", "e", ...
	Type  string
	Range Range
}

// IsDebug reports whether the placeholder formats with the Debug trait.
func (p *Placeholder) IsDebug() bool {
	return p.Type == "?" || p.Type == "x?" || p.Type == "X?"
}

// IsDefault reports `{}`, `{0}` or `{name}` with no spec at all.
func (p *Placeholder) IsDefault() bool {
	return p.Fill == 0 && p.Align == 0 && p.Sign == 0 && !p.Alternate && !p.ZeroPad &&
		p.Width.Kind == CountNone && p.Precision.Kind == CountNone && p.Type == ""
}

// Segment is a literal run or a placeholder.
type Segment struct {
	// Placeholder is nil for literal runs.
	Placeholder *Placeholder
	Range       Range
}

func (s Segment) IsLiteral() bool { return s.Placeholder == nil }

// FormatString is a parsed literal body. Concatenating all segments reproduces
// Source exactly.
type FormatString struct {
	Source   string
	Raw      bool
	Segments []Segment
}

// Placeholders returns placeholders in source order.
func (f *FormatString) Placeholders() []*Placeholder {
	out := make([]*Placeholder, 0, len(f.Segments))
	for _, seg := range f.Segments {
		if seg.Placeholder != nil {
			out = append(out, seg.Placeholder)
		}
	}
	return out
}

// String renders the segments back into source form.
func (f *FormatString) String() string {
	var sb strings.Builder
	sb.Grow(len(f.Source))
	for _, seg := range f.Segments {
		sb.WriteString(seg.Range.In(f.Source))
	}
	return sb.String()
}

// LiteralText returns the unescaped text of all literal runs, with `{{` and
// `}}` collapsed.
func (f *FormatString) LiteralText() []string {
	out := make([]string, 0, len(f.Segments))
	for _, seg := range f.Segments {
		if seg.Placeholder != nil {
			continue
		}
		text := seg.Range.In(f.Source)
		if !f.Raw {
			text = Unescape(text)
		}
		text = strings.ReplaceAll(strings.ReplaceAll(text, "{{", "{"), "}}", "}")
		out = append(out, text)
	}
	return out
}

// EndsWithLiteral reports whether the last segment is literal text.
func (f *FormatString) EndsWithLiteral() bool {
	return len(f.Segments) > 0 && f.Segments[len(f.Segments)-1].Placeholder == nil
}
