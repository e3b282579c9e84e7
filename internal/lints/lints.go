package lints

import (
	"errors"
	"path/filepath"

	"fortio.org/safecast"

	"capfmt/internal/binding"
	"capfmt/internal/diag"
	"capfmt/internal/fmtstr"
	"capfmt/internal/frontend"
	"capfmt/internal/inliner"
	"capfmt/internal/source"
)

// Config controls a lint run.
type Config struct {
	Levels  Levels
	Inliner inliner.Options
	// WithNotes reports call sites the inliner could not analyze as info
	// diagnostics.
	WithNotes bool
}

// DefaultConfig mirrors an empty capfmt.toml.
func DefaultConfig() Config {
	return Config{Levels: DefaultLevels(), Inliner: inliner.DefaultOptions()}
}

// Stats counts what a run saw.
type Stats struct {
	Calls      int
	Rewritable int
	Reported   int
}

func (s *Stats) Add(o Stats) {
	s.Calls += o.Calls
	s.Rewritable += o.Rewritable
	s.Reported += o.Reported
}

var (
	printFamily = map[string]bool{"print": true, "println": true, "eprint": true, "eprintln": true}
	writeFamily = map[string]bool{"write": true, "writeln": true}
)

// Check runs every lint over the calls of res and reports into r.
func Check(res *frontend.Result, cfg Config, r diag.Reporter) Stats {
	if cfg.Levels == nil {
		cfg.Levels = DefaultLevels()
	}
	var st Stats
	for _, call := range res.Calls {
		c := &checker{cfg: cfg, r: r, file: res.File, call: call, stats: &st}
		c.run()
	}
	return st
}

// checker holds the state for one call.
type checker struct {
	cfg   Config
	r     diag.Reporter
	file  *source.File
	call  *frontend.Call
	stats *Stats

	format *fmtstr.FormatString
	res    *binding.Resolution
}

func (c *checker) run() {
	c.stats.Calls++
	c.uninlined()

	name := c.call.Site.Macro
	if !printFamily[name] && !writeFamily[name] {
		return
	}
	if c.format != nil && c.res == nil {
		if res, err := binding.Resolve(c.format, c.call.Site.Args, c.call.Site.Scope); err == nil {
			c.res = res
		}
	}
	c.literal()
	c.withNewline()
	c.emptyString()
	c.useDebug()
	c.stdio()
}

func (c *checker) level(code diag.Code) Level {
	return c.cfg.Levels.Effective(code, c.call.Context.Attrs)
}

// report emits a diagnostic unless the lint is allowed at the call.
func (c *checker) report(code diag.Code, primary source.Span, msg string, fixes ...diag.Fix) *diag.ReportBuilder {
	lvl := c.level(code)
	if lvl == Allow {
		return nil
	}
	c.stats.Reported++
	b := diag.NewReportBuilder(c.r, lvl.Severity(), code, primary, msg)
	for _, f := range fixes {
		b.WithFixSuggestion(f)
	}
	return b
}

func (c *checker) text(sp source.Span) string {
	return string(c.file.Content[sp.Start:sp.End])
}

// span maps a range of the format body onto the file.
func (c *checker) span(r fmtstr.Range) source.Span {
	inner := c.call.Site.Format.Inner
	start, err := safecast.Conv[uint32](r.Start)
	if err != nil {
		return inner
	}
	end, err := safecast.Conv[uint32](r.End)
	if err != nil {
		return inner
	}
	return inner.Sub(start, end)
}

// note reports why a call could not be analyzed. Only used with WithNotes.
func (c *checker) note(err error) {
	if !c.cfg.WithNotes {
		return
	}
	code := diag.InlMalformedFormatString
	offset := 0
	var syn *fmtstr.SyntaxError
	var unres *binding.UnresolvedError
	switch {
	case errors.As(err, &syn):
		offset = syn.Offset
	case errors.As(err, &unres):
		code = diag.InlUnresolvedArgument
		offset = unres.Offset
	}
	sp := c.span(fmtstr.Range{Start: offset, End: offset})
	diag.ReportInfo(c.r, code, sp, err.Error()).Emit()
}

func isBuildScript(f *source.File) bool {
	return filepath.Base(f.Path) == "build.rs"
}
