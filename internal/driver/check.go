package driver

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"capfmt/internal/config"
	"capfmt/internal/diag"
	"capfmt/internal/frontend"
	"capfmt/internal/lints"
	"capfmt/internal/observ"
	"capfmt/internal/source"
	"capfmt/internal/trace"
)

// Options configures a check or fix run.
type Options struct {
	// Config defaults to config.Default().
	Config         *config.Config
	Jobs           int
	MaxDiagnostics int
	// Cache may be nil.
	Cache    *DiskCache
	Progress ProgressSink
	// Timings adds an ObsTimings diagnostic per file.
	Timings bool
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 1000
	}
	return o.MaxDiagnostics
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Stats  lints.Stats
	Cached bool
	Timing *observ.Report
}

// Result is the outcome of a run over one or more files.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Stats   lints.Stats
	Timing  observ.Report
}

// Bag merges the diagnostics of every file, sorted by position.
func (r *Result) Bag() *diag.Bag {
	all := diag.NewBag(0)
	for _, f := range r.Files {
		all.Merge(f.Bag)
	}
	all.Sort()
	return all
}

// Diagnostics returns every diagnostic of the run sorted by position.
func (r *Result) Diagnostics() []*diag.Diagnostic {
	return r.Bag().Items()
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *Result) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// checkLoaded runs one file through cache lookup, scan and lint.
func checkLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) FileResult {
	cfg := opts.config()
	file := fs.Get(id)
	path := displayPath(fs, file)
	bag := diag.NewBag(opts.maxDiagnostics())
	out := FileResult{Path: path, FileID: id, Bag: bag}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, path, trace.CurrentSpan(ctx).SpanID)
	timer := observ.NewTimer()
	status := StatusDone
	defer func() {
		span.WithExtra("calls", strconv.Itoa(out.Stats.Calls))
		span.End(string(status))
	}()

	key := CacheKey(file, cfg.Fingerprint())
	if opts.Cache != nil {
		idx := timer.Begin("cache")
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		timer.End(idx, "")
		switch {
		case err != nil:
			bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache read failed: "+err.Error()))
		case hit:
			for _, d := range fromPayload(&payload, id) {
				bag.Add(d)
			}
			out.Stats = payload.Stats
			out.Cached = true
			status = StatusCached
			emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusCached})
			return out
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusWorking})
	r := diag.BagReporter{Bag: bag}
	idx := timer.Begin("scan")
	scanned := frontend.Scan(file, frontend.Options{Reporter: r, MSRV: cfg.MSRV, Edition: cfg.Edition})
	timer.End(idx, fmt.Sprintf("%d calls", len(scanned.Calls)))
	for _, call := range scanned.Calls {
		trace.Point(tracer, trace.ScopeCallSite, call.Site.Macro, call.Site.Span.String(), span.ID())
	}

	emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusWorking})
	idx = timer.Begin("lint")
	out.Stats = lints.Check(scanned, cfg.Lints, r)
	timer.End(idx, "")

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(path, bag.Items(), out.Stats)); err != nil {
			bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache write failed: "+err.Error()))
		}
	}

	rep := timer.Report()
	out.Timing = &rep
	if opts.Timings {
		appendTimingDiagnostic(bag, source.Span{File: id}, timingPayload{Path: path, TotalMS: rep.TotalMS, Phases: rep.Phases})
	}
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status})
	return out
}

func displayPath(fs *source.FileSet, file *source.File) string {
	if rel, err := source.RelativePath(file.Path, fs.BaseDir()); err == nil {
		return rel
	}
	return file.Path
}

func sortResults(results []FileResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Path < results[j].Path })
}
