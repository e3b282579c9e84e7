package driver

import (
	"context"
	"errors"
	"fmt"

	"capfmt/internal/fix"
	"capfmt/internal/source"
	"capfmt/internal/trace"
)

const defaultMaxPasses = 8

// FixOptions selects the fixes a fix run applies.
type FixOptions struct {
	Mode     fix.ApplyMode
	TargetID string
	DryRun   bool
	// MaxPasses bounds the passes of ApplyModeAll. Later passes pick up fixes
	// that conflicted with an earlier one.
	MaxPasses int
}

// FixResult aggregates every pass of a fix run.
type FixResult struct {
	Applied []fix.AppliedFix
	Skipped []fix.SkippedFix
	// Changes holds the final content of each modified file.
	Changes []fix.FileChange
	Passes  int
	// Final is a check of the fixed sources.
	Final *Result
}

// Fix checks target and applies fixes until nothing changes. Only
// ApplyModeAll runs more than one pass. Files are written unless DryRun is set.
func Fix(ctx context.Context, target string, opts Options, fo FixOptions) (*FixResult, error) {
	fileSet, loaded, err := loadTarget(target, opts)
	if err != nil {
		return nil, err
	}
	maxPasses := fo.MaxPasses
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}
	if fo.Mode != fix.ApplyModeAll {
		maxPasses = 1
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "fix")

	out := &FixResult{}
	changed := make(map[string]fix.FileChange)
	var order []string
	for out.Passes < maxPasses {
		res, err := checkAll(ctx, fileSet, loaded, opts)
		if err != nil {
			span.End("error")
			return nil, err
		}
		out.Final = res
		out.Passes++

		applied, err := fix.Apply(res.FileSet, res.Diagnostics(), fix.ApplyOptions{
			Mode:     fo.Mode,
			TargetID: fo.TargetID,
			DryRun:   fo.DryRun,
		})
		if applied != nil {
			out.Applied = append(out.Applied, applied.Applied...)
			out.Skipped = append(out.Skipped, applied.Skipped...)
		}
		if errors.Is(err, fix.ErrNoFixes) {
			break
		}
		if err != nil {
			span.End("error")
			return out, fmt.Errorf("apply fixes: %w", err)
		}
		for _, ch := range applied.FileChanges {
			if _, seen := changed[ch.Path]; !seen {
				order = append(order, ch.Path)
			} else {
				prev := changed[ch.Path]
				ch.EditCount += prev.EditCount
			}
			changed[ch.Path] = ch
			emit(opts.Progress, Event{File: ch.Path, Stage: StageFix, Status: StatusDone})
		}
		fileSet, loaded = nextFileSet(fileSet, loaded, applied.FileChanges)

		if out.Passes == maxPasses {
			// ещё одна проверка, чтобы Final отражал последние правки
			if out.Final, err = checkAll(ctx, fileSet, loaded, opts); err != nil {
				span.End("error")
				return nil, err
			}
		}
	}

	for _, p := range order {
		out.Changes = append(out.Changes, changed[p])
	}
	span.WithExtra("applied", fmt.Sprint(len(out.Applied)))
	span.End(fmt.Sprintf("%d passes", out.Passes))
	return out, nil
}

// nextFileSet rebuilds the file set with the contents produced by a pass.
// Files are kept in memory so dry runs see their own edits.
func nextFileSet(prev *source.FileSet, loaded []loadedFile, changes []fix.FileChange) (*source.FileSet, []loadedFile) {
	byPath := make(map[string][]byte, len(changes))
	for _, ch := range changes {
		byPath[ch.Path] = ch.Content
	}
	base := prev.BaseDir()
	next := source.NewFileSetWithBase(base)
	out := make([]loadedFile, len(loaded))
	for i, lf := range loaded {
		f := prev.Get(lf.id)
		content := f.Content
		if c, ok := byPath[f.FormatPath("relative", base)]; ok {
			content = c
		}
		out[i] = loadedFile{path: lf.path, id: next.Add(f.Path, content, f.Flags), err: lf.err}
	}
	return next, out
}
