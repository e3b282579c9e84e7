package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"capfmt/internal/config"
	"capfmt/internal/driver"
)

// addConfigFlags registers the per-command lint flags.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("lint", nil, "set a lint level, e.g. --lint use_debug=warn (repeatable)")
	cmd.Flags().Bool("with-notes", false, "report call sites that could not be analyzed")
}

// loadConfig resolves the configuration for target: --config, else the nearest
// capfmt.toml, then command line overrides.
func loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	root := cmd.Root().PersistentFlags()
	path, err := root.GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(target)
	}
	if err != nil {
		return nil, err
	}

	var o config.Overrides
	if o.MSRV, err = root.GetString("msrv"); err != nil {
		return nil, err
	}
	if o.Edition, err = root.GetString("edition"); err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("lint") != nil {
		specs, err := cmd.Flags().GetStringArray("lint")
		if err != nil {
			return nil, err
		}
		if o.Lints, err = parseLintFlags(specs); err != nil {
			return nil, err
		}
		if o.WithNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
			return nil, err
		}
	}
	if err := cfg.Apply(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLintFlags(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, level, ok := strings.Cut(spec, "=")
		if !ok || name == "" || level == "" {
			return nil, fmt.Errorf("invalid --lint %q (expected name=level)", spec)
		}
		out[strings.TrimPrefix(strings.TrimSpace(name), "clippy::")] = strings.TrimSpace(level)
	}
	return out, nil
}

// driverOptions builds the driver options shared by check and fix.
func driverOptions(cmd *cobra.Command, cfg *config.Config) (driver.Options, error) {
	root := cmd.Root().PersistentFlags()
	jobs, err := root.GetInt("jobs")
	if err != nil {
		return driver.Options{}, err
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, err
	}
	noCache, err := root.GetBool("no-cache")
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		Config:         cfg,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Timings:        timings,
	}
	if !noCache {
		cache, err := driver.OpenDiskCache("capfmt")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "capfmt: cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts, nil
}

// useColor resolves --color. auto honours NO_COLOR and requires a terminal.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on", "always":
		enabled = true
	case "off", "never":
		enabled = false
	case "", "auto":
		enabled = os.Getenv("NO_COLOR") == "" && isTerminal(f)
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	color.NoColor = !enabled
	return enabled, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

func targetArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return filepath.Clean(args[0])
}
