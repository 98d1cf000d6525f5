// Package main provides the go-uv-install-trace CLI entry point.
//
// go-uv-install-trace reconstructs the pipeline stages and the parallel
// download timeline of one `uv pip install` run from its debug trace.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
	"github.com/randomizedcoder/go-uv-install-trace/internal/config"
	"github.com/randomizedcoder/go-uv-install-trace/internal/logging"
	"github.com/randomizedcoder/go-uv-install-trace/internal/metrics"
	"github.com/randomizedcoder/go-uv-install-trace/internal/report"
	"github.com/randomizedcoder/go-uv-install-trace/internal/stages"
	"github.com/randomizedcoder/go-uv-install-trace/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-uv-install-trace
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("go-uv-install-trace %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// When the TUI owns the terminal, suppress logs entirely
	var logger *slog.Logger
	if cfg.TUIEnabled {
		logger = logging.NewLoggerWithWriter(io.Discard, "json", "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Debug("starting",
		"version", version,
		"trace", cfg.TracePath,
		"profile", cfg.Profile,
	)

	res, err := analyzer.Run(cfg.TracePath, stages.Profile(cfg.Profile), logger)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "File not found: %s\n", cfg.TracePath)
			fmt.Fprintln(os.Stderr, "Usage: go-uv-install-trace [flags] [trace-file]")
			return 1
		}
		logger.Error("analysis_failed", "error", err)
		return 1
	}

	if cfg.PromTextfile != "" {
		if err := metrics.WriteTextfile(cfg.PromTextfile, res, version); err != nil {
			logger.Error("textfile_write_failed", "error", err)
			return 1
		}
		logger.Info("textfile_written", "path", cfg.PromTextfile)
	}

	rendered := report.Render(res, report.Options{
		TimelineWidth: cfg.TimelineWidth,
		ShowFrameGaps: cfg.ShowFrameGaps,
	})

	if cfg.TUIEnabled {
		if err := tui.Run(res, rendered); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Print(rendered)
	return 0
}
