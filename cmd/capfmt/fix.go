package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"capfmt/internal/driver"
	"capfmt/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.rs|directory]",
	Short: "Apply suggested fixes in place",
	Long: `Run the lints and apply their fixes. --all repeats passes until no fix is
left; --once applies the first fix; --id applies one fix by identifier.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all fixes, repeating until nothing changes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "report the changes without writing files")
	addConfigFlags(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	target := targetArg(args)

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	fo := driver.FixOptions{Mode: fix.ApplyModeOnce, TargetID: targetID, DryRun: dryRun}
	switch {
	case targetID != "":
		fo.Mode = fix.ApplyModeID
	case applyAll:
		fo.Mode = fix.ApplyModeAll
	}

	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := driver.Fix(cmd.Context(), target, opts, fo)
	if res != nil {
		if printErr := printFixResult(cmd.OutOrStdout(), res, dryRun); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if res.Final != nil && res.Final.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func printFixResult(out io.Writer, res *driver.FixResult, dryRun bool) error {
	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		if _, err := fmt.Fprintf(out, "%s %d fix(es) in %d pass(es):\n", verb, len(res.Applied), res.Passes); err != nil {
			return err
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			if _, err := fmt.Fprintf(out, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability); err != nil {
				return err
			}
		}
	}
	if len(res.Changes) > 0 {
		header := "Updated files:"
		if dryRun {
			header = "Files that would change:"
		}
		if _, err := fmt.Fprintln(out, header); err != nil {
			return err
		}
		for _, ch := range res.Changes {
			if _, err := fmt.Fprintf(out, "  %s (%d edits)\n", ch.Path, ch.EditCount); err != nil {
				return err
			}
		}
	}
	if len(res.Skipped) > 0 && len(res.Applied) == 0 {
		if _, err := fmt.Fprintln(out, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if _, err := fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason); err != nil {
				return err
			}
		}
	}
	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(out, "No applicable fixes found.")
		return err
	}
	return nil
}
