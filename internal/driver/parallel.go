package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"capfmt/internal/config"
	"capfmt/internal/diag"
	"capfmt/internal/source"
	"capfmt/internal/trace"
)

// loadedFile is one entry of a run. err is set when the file could not be read;
// id then points to an empty virtual file.
type loadedFile struct {
	path string
	id   source.FileID
	err  error
}

// listRustFiles возвращает отсортированный список *.rs файлов, пропуская exclude.
func listRustFiles(dir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr == nil && rel != "." && cfg.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			// скрытые каталоги (.git и т.п.)
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// loadTarget loads a single file, or every *.rs file under a directory.
func loadTarget(target string, opts Options) (*source.FileSet, []loadedFile, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, nil, err
	}
	if !st.IsDir() {
		fileSet := source.NewFileSetWithBase(filepath.Dir(target))
		id, err := fileSet.Load(target)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", target, err)
		}
		return fileSet, []loadedFile{{path: target, id: id}}, nil
	}

	files, err := listRustFiles(target, opts.config())
	if err != nil {
		return nil, nil, err
	}
	// Загрузка последовательная: FileSet не потокобезопасен.
	fileSet := source.NewFileSetWithBase(target)
	loaded := make([]loadedFile, len(files))
	for i, path := range files {
		emit(opts.Progress, Event{File: displayName(target, path), Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			id = fileSet.AddVirtual(path, nil)
		}
		loaded[i] = loadedFile{path: path, id: id, err: err}
	}
	return fileSet, loaded, nil
}

// Check checks target, a file or a directory. For a directory every *.rs
// file under it is checked; files that fail to load get an IOLoadFileError
// diagnostic instead of aborting the run.
func Check(ctx context.Context, target string, opts Options) (*Result, error) {
	fileSet, loaded, err := loadTarget(target, opts)
	if err != nil {
		return nil, err
	}
	return checkAll(ctx, fileSet, loaded, opts)
}

// checkAll runs the loaded files through checkLoaded on a bounded pool.
func checkAll(ctx context.Context, fileSet *source.FileSet, loaded []loadedFile, opts Options) (*Result, error) {
	res := &Result{FileSet: fileSet}
	if len(loaded) == 0 {
		return res, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "check")
	defer span.End(fmt.Sprintf("%d files", len(loaded)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(loaded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(loaded)))
	for i, lf := range loaded {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if lf.err != nil {
				results[i] = loadFailure(fileSet, lf, opts)
				return nil
			}
			results[i] = checkLoaded(gctx, fileSet, lf.id, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortResults(results)
	res.Files = results
	for _, fr := range results {
		res.Stats.Add(fr.Stats)
		if fr.Timing != nil {
			res.Timing.Merge(*fr.Timing)
		}
	}
	emit(opts.Progress, Event{Stage: StageLint, Status: StatusDone})
	return res, nil
}

func loadFailure(fileSet *source.FileSet, lf loadedFile, opts Options) FileResult {
	path := displayPath(fileSet, fileSet.Get(lf.id))
	bag := diag.NewBag(opts.maxDiagnostics())
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: lf.id}, fmt.Sprintf("failed to load %s: %v", path, lf.err)))
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: lf.err})
	return FileResult{Path: path, FileID: lf.id, Bag: bag}
}

func displayName(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
