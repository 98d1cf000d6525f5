// Package parallel computes overlap and concurrency metrics over a completed
// download timeline.
//
// These metrics need the full record set: overlaps are pairwise over all
// completed downloads and maximum concurrency is a sweep over the sorted
// start/end events, so they are computed once after the trace is consumed
// rather than incrementally.
package parallel

import (
	"sort"

	"github.com/randomizedcoder/go-uv-install-trace/internal/download"
)

// Overlap records one pair of completed downloads whose intervals intersect.
type Overlap struct {
	A          string
	B          string
	DurationMs float64
}

// Result holds the parallelism metrics for one trace.
type Result struct {
	// PhaseDurationMs is (latest completed end - earliest start) * 1000.
	// HasPhaseDuration is false when no download both started and ended.
	PhaseDurationMs  float64
	HasPhaseDuration bool

	// Overlaps lists every overlapping pair of completed downloads,
	// not just maximal cliques.
	Overlaps []Overlap

	// MaxConcurrent is the peak number of simultaneously active downloads.
	MaxConcurrent int
}

// Analyze computes the parallelism metrics. downloads must be ordered by
// start time ascending (download.Timeline.Downloads provides this); events is
// the extracted start/end sequence in trace order.
func Analyze(downloads []*download.PackageDownload, events []download.Event) Result {
	var res Result

	res.PhaseDurationMs, res.HasPhaseDuration = phaseDuration(downloads)
	res.Overlaps = overlaps(downloads)
	res.MaxConcurrent = maxConcurrent(events)

	return res
}

func phaseDuration(downloads []*download.PackageDownload) (float64, bool) {
	var (
		firstStart float64
		lastEnd    float64
		anyStart   bool
		anyEnd     bool
	)
	for _, d := range downloads {
		if d.Started && (!anyStart || d.StartTime < firstStart) {
			firstStart = d.StartTime
			anyStart = true
		}
		if d.Complete() && (!anyEnd || d.EndTime > lastEnd) {
			lastEnd = d.EndTime
			anyEnd = true
		}
	}
	if !anyStart || !anyEnd {
		return 0, false
	}
	return (lastEnd - firstStart) * 1000, true
}

// overlaps reports every unordered pair of completed downloads with
// intersecting intervals. Incomplete downloads are excluded.
func overlaps(downloads []*download.PackageDownload) []Overlap {
	var out []Overlap
	for i, d1 := range downloads {
		if !d1.Complete() {
			continue
		}
		for _, d2 := range downloads[i+1:] {
			if !d2.Complete() {
				continue
			}
			if d1.StartTime < d2.EndTime && d2.StartTime < d1.EndTime {
				start := max(d1.StartTime, d2.StartTime)
				end := min(d1.EndTime, d2.EndTime)
				out = append(out, Overlap{
					A:          d1.Package,
					B:          d2.Package,
					DurationMs: (end - start) * 1000,
				})
			}
		}
	}
	return out
}

// maxConcurrent sweeps the start/end events sorted by elapsed time.
// Tie-break: at an identical timestamp, all end events are processed before
// any start event. A download ending exactly when another begins is not
// counted as concurrent with it.
func maxConcurrent(events []download.Event) int {
	sorted := make([]download.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Elapsed != sorted[j].Elapsed {
			return sorted[i].Elapsed < sorted[j].Elapsed
		}
		return sorted[i].Kind == download.KindEnd && sorted[j].Kind == download.KindStart
	})

	maxP, cur := 0, 0
	for _, e := range sorted {
		switch e.Kind {
		case download.KindStart:
			cur++
			if cur > maxP {
				maxP = cur
			}
		case download.KindEnd:
			cur--
		}
	}
	return maxP
}
