// Package analyzer runs the single-pass trace analysis.
//
// The trace is scanned once, in file order, feeding two independent
// consumers: the stage classifier and the download extractor. Parallelism
// metrics are derived after EOF since they need the complete event set.
// The analyzer owns no state across runs; everything lives in the Result
// returned from one call.
package analyzer

import (
	"io"
	"log/slog"

	"github.com/randomizedcoder/go-uv-install-trace/internal/download"
	"github.com/randomizedcoder/go-uv-install-trace/internal/parallel"
	"github.com/randomizedcoder/go-uv-install-trace/internal/stages"
	"github.com/randomizedcoder/go-uv-install-trace/internal/trace"
)

// Result is the structured output of one trace analysis.
type Result struct {
	Path         string
	LinesScanned int

	// Stage classification
	Profile     stages.Profile
	Transitions []stages.Transition
	FinalStage  stages.Stage
	Counters    stages.Counters

	// Download timeline (ordered by start time ascending)
	Downloads []*download.PackageDownload
	Events    []download.Event
	FrameGaps download.FrameGapStats

	Parallelism parallel.Result
}

// CompletedDownloads returns the downloads with both start and end observed.
func (r *Result) CompletedDownloads() []*download.PackageDownload {
	var out []*download.PackageDownload
	for _, d := range r.Downloads {
		if d.Complete() {
			out = append(out, d)
		}
	}
	return out
}

// IncompleteDownloads returns the downloads missing a start or an end.
func (r *Result) IncompleteDownloads() []*download.PackageDownload {
	var out []*download.PackageDownload
	for _, d := range r.Downloads {
		if !d.Complete() {
			out = append(out, d)
		}
	}
	return out
}

// Run analyzes the trace file at path. logger may be nil.
//
// A missing file is the only fatal condition; the returned error satisfies
// errors.Is(err, fs.ErrNotExist) in that case.
func Run(path string, profile stages.Profile, logger *slog.Logger) (*Result, error) {
	classifier, extractor := newConsumers(profile, logger)

	n, err := trace.ScanFile(path, classifier, extractor)
	if err != nil {
		return nil, err
	}

	res := assemble(path, n, profile, classifier, extractor)
	logComplete(logger, res)
	return res, nil
}

// RunReader analyzes a trace from r. Used for stdin input and tests.
func RunReader(r io.Reader, profile stages.Profile, logger *slog.Logger) (*Result, error) {
	classifier, extractor := newConsumers(profile, logger)

	n, err := trace.ScanReader(r, classifier, extractor)
	if err != nil {
		return nil, err
	}

	res := assemble("", n, profile, classifier, extractor)
	logComplete(logger, res)
	return res, nil
}

func newConsumers(profile stages.Profile, logger *slog.Logger) (*stages.Classifier, *download.Extractor) {
	var cb stages.TransitionCallback
	if logger != nil {
		cb = func(t stages.Transition) {
			logger.Debug("stage_transition",
				"stage", t.Stage.String(),
				"line", t.LineNum,
			)
		}
	}
	return stages.New(profile, cb), download.NewExtractor()
}

func assemble(path string, lines int, profile stages.Profile, c *stages.Classifier, x *download.Extractor) *Result {
	tl := x.Timeline()
	downloads := tl.Downloads()
	events := tl.Events()

	return &Result{
		Path:         path,
		LinesScanned: lines,
		Profile:      profile,
		Transitions:  c.History(),
		FinalStage:   c.Current(),
		Counters:     c.Counters(),
		Downloads:    downloads,
		Events:       events,
		FrameGaps:    x.FrameGaps(),
		Parallelism:  parallel.Analyze(downloads, events),
	}
}

func logComplete(logger *slog.Logger, res *Result) {
	if logger == nil {
		return
	}
	logger.Info("analysis_complete",
		"lines", res.LinesScanned,
		"stages", len(res.Transitions),
		"final_stage", res.FinalStage.String(),
		"downloads", len(res.Downloads),
		"max_concurrent", res.Parallelism.MaxConcurrent,
	)
}
