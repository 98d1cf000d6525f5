// Package report renders analysis results as a human-readable text report.
//
// The report has four sections: stage progression, per-package download
// details, an ASCII timeline of the download phase, and the parallelism
// analysis. Rendering is presentation only; all numbers come straight from
// the analyzer.Result.
package report

import (
	"fmt"
	"strings"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
	"github.com/randomizedcoder/go-uv-install-trace/internal/download"
)

const (
	bannerWidth = 79
	triggerCols = 80
)

// Options controls report rendering.
type Options struct {
	// TimelineWidth is the ASCII timeline width in columns.
	TimelineWidth int

	// ShowFrameGaps includes inter-frame gap percentiles when samples exist.
	ShowFrameGaps bool
}

// DefaultOptions returns the standard report options.
func DefaultOptions() Options {
	return Options{TimelineWidth: 50, ShowFrameGaps: true}
}

// Render formats the full report.
func Render(res *analyzer.Result, opts Options) string {
	if opts.TimelineWidth < 10 {
		opts.TimelineWidth = 50
	}

	var b strings.Builder

	b.WriteString(banner("uv install trace analysis"))
	if res.Path != "" {
		fmt.Fprintf(&b, "Trace:                  %s\n", res.Path)
	}
	fmt.Fprintf(&b, "Lines scanned:          %d\n", res.LinesScanned)
	fmt.Fprintf(&b, "Profile:                %s\n\n", res.Profile)

	renderStages(&b, res)
	renderDownloads(&b, res)
	renderTimeline(&b, res, opts.TimelineWidth)
	renderParallelism(&b, res)
	if opts.ShowFrameGaps {
		renderFrameGaps(&b, res)
	}

	b.WriteString(strings.Repeat("═", bannerWidth) + "\n")
	return b.String()
}

func banner(title string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(strings.Repeat("═", bannerWidth) + "\n")
	pad := (bannerWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(strings.Repeat("═", bannerWidth) + "\n\n")
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(strings.Repeat("─", bannerWidth) + "\n")
	pad := (bannerWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(strings.Repeat("─", bannerWidth) + "\n\n")
}

func renderStages(b *strings.Builder, res *analyzer.Result) {
	section(b, "Stage Progression")

	fmt.Fprintf(b, "  Stages reached:       %d\n", len(res.Transitions))
	fmt.Fprintf(b, "  Final stage:          %s\n", res.FinalStage)
	fmt.Fprintf(b, "  Packages resolved:    %d\n", res.Counters.Resolved)
	fmt.Fprintf(b, "  Packages prepared:    %d\n", res.Counters.Prepared)
	fmt.Fprintf(b, "  Packages installed:   %d\n\n", res.Counters.Installed)

	if len(res.Transitions) == 0 {
		b.WriteString("  No stage transitions recognized (incomplete stage history)\n\n")
		return
	}

	for i, t := range res.Transitions {
		trigger := Truncate(strings.TrimSpace(t.Line), triggerCols)
		fmt.Fprintf(b, "  %2d. line %-6d %-28s <- %s\n", i+1, t.LineNum, t.Stage.String(), trigger)
	}
	b.WriteString("\n")
}

func renderDownloads(b *strings.Builder, res *analyzer.Result) {
	section(b, "Package Downloads")

	if len(res.Downloads) == 0 {
		b.WriteString("  No downloads found in trace\n\n")
		return
	}

	fmt.Fprintf(b, "  Downloads:            %d (%d complete, %d incomplete)\n\n",
		len(res.Downloads),
		len(res.CompletedDownloads()),
		len(res.IncompleteDownloads()),
	)

	for _, d := range res.Downloads {
		fmt.Fprintf(b, "  %s\n", strings.ToUpper(d.Package))
		fmt.Fprintf(b, "    Stream ID:    %d\n", d.StreamID)
		if d.HasSize {
			fmt.Fprintf(b, "    Size:         %s\n", FormatMiB(d.SizeMiB))
		}
		if d.Started {
			fmt.Fprintf(b, "    Start:        %s (line %d)\n", FormatSeconds(d.StartTime), d.StartLine)
		}
		if d.Complete() {
			fmt.Fprintf(b, "    End:          %s (line %d)\n", FormatSeconds(d.EndTime), d.EndLine)
			if ms, ok := d.DurationMs(); ok {
				fmt.Fprintf(b, "    Duration:     %s\n", FormatMs(ms))
			}
			fmt.Fprintf(b, "    Data frames:  %d\n", d.DataFrames)
			if speed, ok := d.SpeedMbps(); ok {
				fmt.Fprintf(b, "    Speed:        %s\n", FormatMbps(speed))
			}
		} else {
			b.WriteString("    Status:       INCOMPLETE\n")
		}
		b.WriteString("\n")
	}
}

func renderTimeline(b *strings.Builder, res *analyzer.Result, width int) {
	completed := res.CompletedDownloads()
	if len(completed) == 0 {
		return
	}

	section(b, "Download Timeline")

	firstStart := completed[0].StartTime
	lastEnd := completed[0].EndTime
	for _, d := range completed {
		if d.StartTime < firstStart {
			firstStart = d.StartTime
		}
		if d.EndTime > lastEnd {
			lastEnd = d.EndTime
		}
	}
	span := lastEnd - firstStart

	for _, d := range completed {
		fmt.Fprintf(b, "  %-10s %s", d.Package, timelineBar(d, firstStart, span, width))
		if ms, ok := d.DurationMs(); ok {
			fmt.Fprintf(b, " %.0fms", ms)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "\n  Timeline: [%.2fs - %.2fs]\n\n", firstStart, lastEnd)
}

// timelineBar renders one download as a proportional [====] bar.
func timelineBar(d *download.PackageDownload, firstStart, span float64, width int) string {
	bar := make([]byte, width)
	for i := range bar {
		bar[i] = '.'
	}
	if span <= 0 {
		bar[0] = '['
		if width > 1 {
			bar[1] = ']'
		}
		return string(bar)
	}

	startPos := int((d.StartTime - firstStart) / span * float64(width))
	endPos := int((d.EndTime - firstStart) / span * float64(width))
	if startPos >= width {
		startPos = width - 1
	}
	for i := startPos; i <= endPos && i < width; i++ {
		bar[i] = '='
	}
	bar[startPos] = '['
	if endPos < width {
		bar[endPos] = ']'
	}
	return string(bar)
}

func renderParallelism(b *strings.Builder, res *analyzer.Result) {
	section(b, "Parallelism Analysis")

	p := res.Parallelism
	if p.HasPhaseDuration {
		fmt.Fprintf(b, "  Download phase:       %s\n", FormatMs(p.PhaseDurationMs))
	}
	fmt.Fprintf(b, "  Max concurrent:       %d\n\n", p.MaxConcurrent)

	if len(p.Overlaps) == 0 {
		b.WriteString("  No overlapping downloads detected\n\n")
		return
	}

	b.WriteString("  Overlapping downloads:\n")
	for _, o := range p.Overlaps {
		fmt.Fprintf(b, "    %s & %s: %s overlap\n", o.A, o.B, FormatMs(o.DurationMs))
	}
	b.WriteString("\n")
}

func renderFrameGaps(b *strings.Builder, res *analyzer.Result) {
	g := res.FrameGaps
	if g.Count == 0 {
		return
	}

	section(b, "Frame Timing")

	fmt.Fprintf(b, "  Inter-frame gaps:     %d samples\n", g.Count)
	fmt.Fprintf(b, "  P50:                  %s\n", FormatMs(g.P50*1000))
	fmt.Fprintf(b, "  P95:                  %s\n", FormatMs(g.P95*1000))
	fmt.Fprintf(b, "  P99:                  %s\n\n", FormatMs(g.P99*1000))
}
