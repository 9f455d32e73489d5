package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cool/internal/diag"
	"cool/internal/diagfmt"
	"cool/internal/driver"
	"cool/internal/observ"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [manifest|directory]...",
	Short: "Resolve declarations and report diagnostics",
	Long: `Declare every item from the given manifests, run resolution passes until
nothing changes, and print the diagnostics together with a pass summary.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	resolveCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	resolveCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type resolvePayload struct {
	Session     string                    `json:"session"`
	Cached      bool                      `json:"cached,omitempty"`
	Passes      []driver.PassSummary      `json:"passes"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     *observ.Report            `json:"timings,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json)", format)
	}

	opts, err := readRunOptions(cmd, args)
	if err != nil {
		return err
	}
	res, err := executeRun(cmd, "Resolving", opts, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	baseDir, _ := os.Getwd()

	switch format {
	case "json":
		payload := resolvePayload{
			Session: res.Session,
			Cached:  res.Cached,
			Passes:  res.Passes,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				BaseDir:          baseDir,
				IncludeNotes:     withNotes,
			}),
		}
		if opts.timings {
			payload.Timings = &res.Timing
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	case "short":
		if s := diag.FormatShort(res.Bag.Items(), res.Files, withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	default:
		diagfmt.Pretty(out, res.Bag, res.Files, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			PathMode:  pathMode,
			BaseDir:   baseDir,
			ShowNotes: withNotes,
		})
		if res.Bag.Len() > 0 {
			fmt.Fprintln(out)
		}
		printPassSummary(out, res)
		if opts.timings {
			printTimings(cmd.ErrOrStderr(), res.Timing)
		}
	}

	if res.Bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

func printPassSummary(out io.Writer, res *driver.Result) {
	if res.Cached {
		fmt.Fprintln(out, color.New(color.Faint).Sprint("(from disk cache)"))
	}
	for _, p := range res.Passes {
		fmt.Fprintf(out, "pass %d: %d -> %d pending (%d defined, %d failed)\n",
			p.Pass, p.Before, p.After, p.Defined, p.Failed)
	}
	errs := res.Bag.Count(diag.SevError)
	warns := res.Bag.Count(diag.SevWarning)
	summary := fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	switch {
	case errs > 0:
		summary = color.New(color.FgRed, color.Bold).Sprint(summary)
	case warns > 0:
		summary = color.New(color.FgYellow).Sprint(summary)
	default:
		summary = color.New(color.FgGreen).Sprint(summary)
	}
	files := len(res.Files.Files())
	fmt.Fprintf(out, "%s in %d manifest(s)", summary, files)
	if dropped := res.Bag.Dropped(); dropped > 0 {
		fmt.Fprintf(out, ", %d dropped over --max-diagnostics", dropped)
	}
	fmt.Fprintln(out)
}
