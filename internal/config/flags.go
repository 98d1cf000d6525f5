package config

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses command-line flags and returns a Config.
//
// Layering order: defaults, then the TOML config file (if -config is given),
// then flags. The -config value is pre-scanned from args so the file's values
// can serve as flag defaults and still be overridden on the command line.
func ParseFlags() (*Config, error) {
	return parseFlags(os.Args[1:], flag.ExitOnError)
}

func parseFlags(args []string, errorHandling flag.ErrorHandling) (*Config, error) {
	cfg := DefaultConfig()

	// Layer the config file under the flags.
	if path := prescanConfigPath(args); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	fs := flag.NewFlagSet("go-uv-install-trace", errorHandling)
	fs.Usage = func() { printUsage(fs) }

	// Analysis
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, `Stage trigger table: "strict" (anchored uv log markers) or "loose" (human-readable phrases, adds a terminal "complete" stage)`)

	// Report
	fs.IntVar(&cfg.TimelineWidth, "timeline-width", cfg.TimelineWidth, "Width of the ASCII download timeline in columns")
	fs.BoolVar(&cfg.ShowFrameGaps, "frame-gaps", cfg.ShowFrameGaps, "Include inter-frame gap percentiles in the report")

	// Output modes
	fs.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Browse the report in an interactive terminal viewer")
	fs.StringVar(&cfg.PromTextfile, "prom-textfile", cfg.PromTextfile, "Write results in Prometheus text exposition format to this path (node_exporter textfile collector)")

	// Observability
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging (per-transition debug output)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// Config file (consumed by the prescan; registered so it shows in usage
	// and doesn't trip the parser)
	configFile := fs.String("config", cfg.ConfigFile, "TOML config file with default settings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.ConfigFile = *configFile

	// Positional argument: trace file path
	if rest := fs.Args(); len(rest) >= 1 {
		cfg.TracePath = rest[0]
	}

	return cfg, nil
}

// prescanConfigPath finds the -config value before flag parsing.
func prescanConfigPath(args []string) string {
	for i, a := range args {
		switch a {
		case "-config", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		for _, prefix := range []string{"-config=", "--config="} {
			if len(a) > len(prefix) && a[:len(prefix)] == prefix {
				return a[len(prefix):]
			}
		}
	}
	return ""
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `go-uv-install-trace - stage and parallel-download analysis of uv debug traces

Usage:
  go-uv-install-trace [flags] [trace-file]

The trace file defaults to %s.

Analysis:
`, DefaultTracePath)
	printFlagCategory(fs, []string{"profile"})

	fmt.Fprintf(os.Stderr, "\nReport:\n")
	printFlagCategory(fs, []string{"timeline-width", "frame-gaps"})

	fmt.Fprintf(os.Stderr, "\nOutput:\n")
	printFlagCategory(fs, []string{"tui", "prom-textfile"})

	fmt.Fprintf(os.Stderr, "\nObservability:\n")
	printFlagCategory(fs, []string{"v", "log-format"})

	fmt.Fprintf(os.Stderr, "\nConfig:\n")
	printFlagCategory(fs, []string{"config"})

	fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze the default trace path
  uv pip install torch -v 2>/tmp/uv_debug_output.log && go-uv-install-trace

  # Loose stage table, wider timeline
  go-uv-install-trace -profile loose -timeline-width 70 ./uv.log

  # Export results for the node_exporter textfile collector
  go-uv-install-trace -prom-textfile /var/lib/node_exporter/uv_trace.prom ./uv.log

`)
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}
