package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cool/internal/diag"
	"cool/internal/diagfmt"
	"cool/internal/driver"
	"cool/internal/observ"
	"cool/internal/ui"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [manifest|directory]...",
	Short: "Print size, alignment and field offsets of resolved items",
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	layoutCmd.Flags().Bool("fields", true, "list struct fields under their item")
	layoutCmd.Flags().String("filter", "", "only show items whose path starts with this prefix")
}

type layoutPayload struct {
	Session string               `json:"session" yaml:"session"`
	Cached  bool                 `json:"cached,omitempty" yaml:"cached,omitempty"`
	Layout  *driver.Report       `json:"layout" yaml:"layout"`
	Passes  []driver.PassSummary `json:"passes" yaml:"passes"`
	Errors  int                  `json:"errors" yaml:"errors"`
	Timings *observ.Report       `json:"timings,omitempty" yaml:"timings,omitempty"`
}

func runLayout(cmd *cobra.Command, args []string) error {
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
	showFields, err := cmd.Flags().GetBool("fields")
	if err != nil {
		return fmt.Errorf("failed to get fields flag: %w", err)
	}
	filter, err := cmd.Flags().GetString("filter")
	if err != nil {
		return fmt.Errorf("failed to get filter flag: %w", err)
	}
	switch format {
	case "pretty", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|yaml)", format)
	}

	opts, err := readRunOptions(cmd, args)
	if err != nil {
		return err
	}
	res, err := executeRun(cmd, "Computing layouts", opts, format)
	if err != nil {
		return err
	}
	rep := filterReport(res.Report, filter)
	out := cmd.OutOrStdout()

	switch format {
	case "json", "yaml":
		payload := layoutPayload{
			Session: res.Session,
			Cached:  res.Cached,
			Layout:  rep,
			Passes:  res.Passes,
			Errors:  res.Bag.Count(diag.SevError),
		}
		if opts.timings {
			payload.Timings = &res.Timing
		}
		if format == "yaml" {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(payload); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
		} else {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(payload); err != nil {
				return err
			}
		}
	default:
		// Diagnostics go to stderr so the table stays pipeable.
		if res.Bag.Len() > 0 {
			baseDir, _ := os.Getwd()
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.Files, diagfmt.PrettyOpts{
				Color:   !color.NoColor,
				BaseDir: baseDir,
			})
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if rep != nil {
			fmt.Fprint(out, ui.RenderLayoutTable(rep, ui.TableOptions{
				Width:  terminalWidth(os.Stdout),
				Color:  !color.NoColor,
				Fields: showFields,
			}))
		}
		if opts.timings {
			printTimings(cmd.ErrOrStderr(), res.Timing)
		}
	}

	if res.Bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

func filterReport(rep *driver.Report, prefix string) *driver.Report {
	if rep == nil || prefix == "" {
		return rep
	}
	out := &driver.Report{Target: rep.Target}
	for _, it := range rep.Items {
		if strings.HasPrefix(it.Path, prefix) {
			out.Items = append(out.Items, it)
		}
	}
	return out
}
