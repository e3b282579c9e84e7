package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"capfmt/internal/trace"
	"capfmt/internal/version"
)

// errDiagnostics signals that errors were reported; they are already printed.
var errDiagnostics = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "capfmt",
	Short: "Inline format arguments in Rust sources",
	Long: `capfmt finds format-family macro calls in Rust sources (println!, format!,
write!, panic!, ...) and inlines plain identifier arguments into the format string.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		return setupTracing(cmd, args)
	},
}

func init() {
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) { stopRun() }
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(inlineCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "path to capfmt.toml (default: search upwards from the target)")
	pf.String("msrv", "", "minimum supported Rust version, overrides the config file")
	pf.String("edition", "", "Rust edition, overrides the config file")
	pf.Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	pf.Int("max-diagnostics", 1000, "maximum number of diagnostics per file")
	pf.Bool("timings", false, "show timing information")
	pf.Bool("no-cache", false, "do not read or write the result cache")
	addTraceFlags(pf)
	addProfileFlags(pf)

	defer func() {
		if r := recover(); r != nil {
			dumpTraceRing(os.Stderr)
			panic(r)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		stopRun()
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "capfmt: %v\n", err)
		}
		os.Exit(1)
	}
}

func stopRun() {
	stopTracing()
	stopProfiling()
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func dumpTraceRing(w *os.File) {
	ring := trace.RingOf(activeTracer)
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "capfmt: panic, last trace events:")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
