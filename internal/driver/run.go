// Package driver runs the resolver over declaration manifests: parallel
// loading, the declaration pass, the fixed-point loop and the layout report.
package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cool/internal/diag"
	"cool/internal/layout"
	"cool/internal/manifest"
	"cool/internal/observ"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/trace"
)

// Run executes one resolver run. Problems in the input end up in
// Result.Bag; the returned error is reserved for cancellation and cache
// I/O failures.
func Run(ctx context.Context, req Request) (*Result, error) {
	session := trace.SessionFrom(ctx)
	if session == "" {
		session = trace.NewSession()
		ctx = trace.WithSession(ctx, session)
	}
	ctx, root := trace.BeginCtx(ctx, trace.ScopeDriver, "resolve")
	timer := observ.NewTimer()
	res := &Result{
		Files:   source.NewFileSet(),
		Bag:     diag.NewBag(req.MaxDiagnostics),
		Session: session,
	}
	rep := diag.BagReporter{Bag: res.Bag}
	defer func() {
		res.Timing = timer.Report()
		root.WithExtra("session", session).End(fmt.Sprintf("%d diagnostics", res.Bag.Len()))
	}()

	// load
	idx := timer.Begin("load")
	loadCtx, span := trace.BeginCtx(ctx, trace.ScopePass, "load")
	files, err := loadManifests(loadCtx, req, res.Files)
	span.End("")
	if err != nil {
		timer.End(idx, "cancelled")
		return res, err
	}
	var manifests []*manifest.Manifest
	for _, f := range files {
		if f.err != nil {
			reportErr(rep, f.err, source.Span{})
			continue
		}
		manifests = append(manifests, f.m)
	}
	timer.End(idx, fmt.Sprintf("%d/%d manifests", len(manifests), len(files)))

	target, err := pickTarget(req.Target, manifests, rep)
	if err != nil {
		return res, nil
	}

	var key Digest
	if req.Cache != nil {
		key = cacheKey(target.Triple, req.MaxPasses, res.Files.Files())
		cached, ok, err := req.Cache.Get(key)
		if err != nil {
			return res, fmt.Errorf("disk cache: %w", err)
		}
		if ok {
			trace.Point(ctx, trace.ScopePass, "cache", "hit "+key.String()[:12])
			res.Cached = true
			res.Report = cached.Report
			res.Passes = cached.Passes
			for _, d := range cached.Diagnostics {
				res.Bag.Add(d)
			}
			return res, nil
		}
	}

	rc := resolve.NewContext(target)
	res.Context = rc

	// declare
	idx = timer.Begin("declare")
	emit(req.Progress, Event{Stage: StageDeclare, Status: StatusWorking})
	declCtx, span := trace.BeginCtx(ctx, trace.ScopePass, "declare")
	declare(declCtx, rc, manifests, rep)
	span.WithExtra("queued", strconv.Itoa(rc.Pending())).End("")
	emit(req.Progress, Event{Stage: StageDeclare, Status: StatusDone, Pending: rc.Pending()})
	timer.End(idx, fmt.Sprintf("%d queued", rc.Pending()))

	// solve
	idx = timer.Begin("solve")
	passes, err := solve(ctx, rc, req, rep)
	res.Passes = passes
	timer.End(idx, fmt.Sprintf("%d passes", len(passes)))
	if err != nil {
		return res, err
	}

	// layout
	idx = timer.Begin("layout")
	_, span = trace.BeginCtx(ctx, trace.ScopePass, "layout")
	res.Report = buildReport(rc)
	span.End("")
	emit(req.Progress, Event{Stage: StageLayout, Status: StatusDone})
	timer.End(idx, fmt.Sprintf("%d items", len(res.Report.Items)))

	res.Bag.Sort()
	res.Bag.Dedup()

	if req.Cache != nil {
		payload := &CachedRun{
			Schema:      diskCacheSchemaVersion,
			Report:      res.Report,
			Passes:      res.Passes,
			Diagnostics: res.Bag.Items(),
			Dropped:     res.Bag.Dropped(),
		}
		if err := req.Cache.Put(key, payload); err != nil {
			return res, fmt.Errorf("disk cache: %w", err)
		}
	}
	return res, nil
}

// solve drives the fixed-point loop: Pass until the queue is empty or a
// pass makes no progress, then Finish whatever is left.
func solve(ctx context.Context, rc *resolve.Context, req Request, rep diag.Reporter) ([]PassSummary, error) {
	var passes []PassSummary
	for n := 1; rc.Pending() > 0; n++ {
		if err := ctx.Err(); err != nil {
			return passes, err
		}
		if req.MaxPasses > 0 && n > req.MaxPasses {
			break
		}
		start := time.Now()
		_, span := trace.BeginCtx(ctx, trace.ScopePass, "pass#"+strconv.Itoa(n))
		pr := rc.Pass()
		for _, err := range pr.Failed {
			reportErr(rep, err, source.Span{})
		}
		span.WithExtra("before", strconv.Itoa(pr.Before)).
			WithExtra("after", strconv.Itoa(pr.After)).
			WithExtra("defined", strconv.Itoa(len(pr.Defined))).
			End("")
		passes = append(passes, PassSummary{Pass: n, Before: pr.Before, After: pr.After, Defined: len(pr.Defined), Failed: len(pr.Failed)})
		emit(req.Progress, Event{Stage: StageSolve, Status: StatusWorking, Pass: n, Pending: pr.After, Elapsed: time.Since(start)})
		if !pr.Progress() {
			break
		}
	}
	for _, err := range rc.Finish() {
		reportErr(rep, err, source.Span{})
	}
	emit(req.Progress, Event{Stage: StageSolve, Status: StatusDone, Pass: len(passes)})
	return passes, nil
}

// pickTarget prefers the request, then the first manifest naming a target.
// Manifests that disagree get a warning.
func pickTarget(requested string, manifests []*manifest.Manifest, rep diag.Reporter) (layout.Target, error) {
	name := requested
	if name == "" {
		for _, m := range manifests {
			if m.Target == "" {
				continue
			}
			if name == "" {
				name = m.Target
				continue
			}
			if m.Target != name {
				diag.Emit(rep, diag.New(diag.SevWarning, diag.PrjUnknownTarget, m.TargetSpan,
					fmt.Sprintf("target %q ignored, using %q", m.Target, name)))
			}
		}
	}
	t, err := layout.TargetByName(name)
	if err != nil {
		diag.Emit(rep, diag.NewError(diag.PrjUnknownTarget, source.Span{}, err.Error()))
	}
	return t, err
}
