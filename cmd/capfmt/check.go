package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"capfmt/internal/diag"
	"capfmt/internal/diagfmt"
	"capfmt/internal/driver"
	"capfmt/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.rs|directory]",
	Short: "Report format calls whose arguments can be inlined",
	Long: `Scan Rust sources for format-family macro calls and report lints such as
uninlined_format_args, print_literal and print_with_newline. Exits with status 1
when an error-level (deny) diagnostic is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().String("path-mode", "relative", "path display (auto|absolute|relative|basename)")
	checkCmd.Flags().Int8("context", 0, "source lines shown around each diagnostic")
	checkCmd.Flags().Bool("show-fixes", false, "list the suggested fixes")
	checkCmd.Flags().Bool("preview", false, "show before/after lines for fixes")
	checkCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
	addConfigFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := targetArg(args)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short, json or sarif)", format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}

	run := func(ctx context.Context, sink driver.ProgressSink) (*driver.Result, error) {
		o := opts
		o.Progress = sink
		return driver.Check(ctx, target, o)
	}
	var res *driver.Result
	if format == "pretty" && shouldUseTUI(mode, target) {
		res, err = runWithUI(cmd.Context(), "capfmt check "+target, run)
	} else {
		res, err = run(cmd.Context(), nil)
	}
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := renderCheck(cmd, out, res, format, args); err != nil {
		return err
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings && format != "json" && format != "sarif" {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary())
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func renderCheck(cmd *cobra.Command, out io.Writer, res *driver.Result, format string, args []string) error {
	bag := res.Bag()
	switch format {
	case "short":
		if s := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, false); s != "" {
			fmt.Fprintln(out, s)
		}
		return nil
	case "json":
		return diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "capfmt",
			ToolVersion:    version.Version,
			InvocationArgs: append([]string{"check"}, args...),
		})
	}

	opts, err := prettyOptions(cmd)
	if err != nil {
		return err
	}
	diagfmt.Pretty(out, bag, res.FileSet, opts)
	printSummary(out, bag, res)
	return nil
}

func prettyOptions(cmd *cobra.Command) (diagfmt.PrettyOpts, error) {
	var opts diagfmt.PrettyOpts
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, err
	}
	pm, ok := diagfmt.ParsePathMode(pathMode)
	if !ok {
		return opts, fmt.Errorf("invalid --path-mode %q", pathMode)
	}
	opts.PathMode = pm
	if opts.Context, err = cmd.Flags().GetInt8("context"); err != nil {
		return opts, err
	}
	if opts.ShowFixes, err = cmd.Flags().GetBool("show-fixes"); err != nil {
		return opts, err
	}
	if opts.ShowPreview, err = cmd.Flags().GetBool("preview"); err != nil {
		return opts, err
	}
	if opts.Color, err = useColor(cmd, os.Stdout); err != nil {
		return opts, err
	}
	opts.ShowNotes = true
	return opts, nil
}

func printSummary(out io.Writer, bag *diag.Bag, res *driver.Result) {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if bag.Len() > 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d files, %d format calls, %d rewritable: %d errors, %d warnings\n",
		len(res.Files), res.Stats.Calls, res.Stats.Rewritable, errs, warns)
}
