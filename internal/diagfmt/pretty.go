package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"capfmt/internal/diag"
	"capfmt/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s",
		formatPath(fs, f, opts.PathMode), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
	if name := d.Code.LintName(); name != "" {
		fmt.Fprintf(w, " [%s]", name)
	}
	fmt.Fprintln(w)

	if len(f.Content) > 0 {
		writeSnippet(w, f, start, end, opts, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			loc := locationString(fs, n.Span, opts.PathMode)
			if loc != "" {
				loc += ": "
			}
			fmt.Fprintf(w, "  %s %s%s\n", pal.note.Sprint("note:"), loc, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			writeFix(w, fs, i+1, fx, opts, pal)
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := max(start.Line, ctx+1) - ctx
	last := min(start.Line+ctx, f.LineCount())
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))
	empty := strings.Repeat(" ", gutterWidth)

	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "...")
		}
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, line), pal.gutter.Sprint("|"), text)
		if line != start.Line {
			continue
		}
		fmt.Fprintf(w, " %s %s %s\n", empty, pal.gutter.Sprint("|"), pal.caret.Sprint(underline(text, start, end)))
	}
}

// underline builds the ^~~~ marker for the span on the first line. Columns are
// byte based; widths follow the rendered text so wide runes line up.
func underline(line string, start, end source.LineCol) string {
	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	var pad strings.Builder
	for _, r := range line[:max(from, 0)] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := 0
	if to > from {
		width = runewidth.StringWidth(line[from:to])
	}
	if width <= 1 {
		return pad.String() + "^"
	}
	return pad.String() + "^" + strings.Repeat("~", width-1)
}

func writeFix(w io.Writer, fs *source.FileSet, n int, fx diag.Fix, opts PrettyOpts, pal palette) {
	meta := fx.Applicability.String()
	if fx.IsPreferred {
		meta += ", preferred"
	}
	fmt.Fprintf(w, "  %s %s (%s)", pal.fix.Sprintf("fix #%d:", n), fx.Title, meta)
	if fx.ID != "" {
		fmt.Fprintf(w, " id=%s", fx.ID)
	}
	fmt.Fprintln(w)
	for _, e := range fx.Edits {
		fmt.Fprintf(w, "    edit %s apply=%q\n", locationString(fs, e.Span, opts.PathMode), e.NewText)
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      - %s\n", l)
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      + %s\n", l)
		}
	}
}

func locationString(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}
