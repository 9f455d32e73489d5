package driver

import (
	"context"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"cool/internal/diag"
	"cool/internal/manifest"
	"cool/internal/source"
	"cool/internal/trace"
)

type loaded struct {
	path string
	m    *manifest.Manifest
	err  error
}

// loadManifests reads every path into fs, then decodes the files in
// parallel. The FileSet is only appended to before the workers start.
func loadManifests(ctx context.Context, req Request, fs *source.FileSet) ([]loaded, error) {
	paths := slices.Clone(req.Paths)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	results := make([]loaded, len(paths))
	ids := make([]source.FileID, len(paths))
	for i, path := range paths {
		results[i].path = path
		emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fs.Load(path)
		if err != nil {
			results[i].err = &manifest.Error{Kind: manifest.ErrRead, Path: path, Msg: "cannot read manifest", Err: err}
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		ids[i] = id
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range paths {
		if ids[i] == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			path := results[i].path
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			m, err := manifest.Decode(fs.Get(ids[i]))
			results[i].m, results[i].err = m, err
			status := StatusDone
			if err != nil {
				status = StatusError
			}
			trace.Point(gctx, trace.ScopeItem, "manifest:"+path, string(status))
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: status, Err: err, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// splitErrors flattens an errors.Join tree one level.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func reportErr(rep diag.Reporter, err error, fallback source.Span) {
	for _, e := range splitErrors(err) {
		diag.Emit(rep, diag.FromError(e, fallback))
	}
}
