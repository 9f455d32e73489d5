package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"cool/internal/driver"
	"cool/internal/manifest"
	"cool/internal/trace"
)

type runOptions struct {
	request driver.Request
	ui      uiMode
	timings bool
}

func readRunOptions(cmd *cobra.Command, args []string) (runOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var opts runOptions

	target, err := pf.GetString("target")
	if err != nil {
		return opts, fmt.Errorf("failed to get target flag: %w", err)
	}
	jobs, err := pf.GetInt("jobs")
	if err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxPasses, err := pf.GetInt("max-passes")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-passes flag: %w", err)
	}
	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	useDiskCache, err := pf.GetBool("disk-cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiFlag, err := pf.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiFlag); err != nil {
		return opts, err
	}
	if opts.timings, err = pf.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}

	paths, err := collectManifests(args)
	if err != nil {
		return opts, err
	}
	opts.request = driver.Request{
		Paths:          paths,
		Target:         target,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		MaxPasses:      maxPasses,
	}
	if useDiskCache {
		cache, err := driver.OpenDiskCache("coolc")
		if err != nil {
			return opts, fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.request.Cache = cache
	}
	return opts, nil
}

// collectManifests expands args into manifest paths. Directories contribute
// every *.toml, *.yaml and *.yml file directly inside them; no args means the
// nearest manifest above the working directory.
func collectManifests(args []string) ([]string, error) {
	if len(args) == 0 {
		path, ok, err := manifest.Find(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no manifest found (looked for %s)", strings.Join(manifest.DefaultNames, ", "))
		}
		return []string{path}, nil
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Reported by the driver as an unreadable manifest.
				paths = append(paths, arg)
				continue
			}
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", arg, err)
		}
		found := 0
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := manifest.FormatOf(e.Name()); ok {
				paths = append(paths, filepath.Join(arg, e.Name()))
				found++
			}
		}
		if found == 0 {
			return nil, fmt.Errorf("no manifests in directory %q", arg)
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// executeRun runs the driver for cmd, with the progress UI when enabled.
// On failure the trace ring, if any, is dumped to stderr.
func executeRun(cmd *cobra.Command, title string, opts runOptions, format string) (*driver.Result, error) {
	ctx := cmd.Context()
	var (
		res *driver.Result
		err error
	)
	if shouldUseTUI(opts.ui, format) {
		res, err = runWithUI(ctx, title, opts.request)
	} else {
		res, err = driver.Run(ctx, opts.request)
	}
	if err != nil || (res != nil && res.Bag.HasErrors()) {
		dumpTrace(trace.FromContext(ctx), cmd.ErrOrStderr())
	}
	return res, err
}
