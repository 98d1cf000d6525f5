package download

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/influxdata/tdigest"

	"github.com/randomizedcoder/go-uv-install-trace/internal/trace"
)

var (
	// "Downloading torch (50.0MiB)" — printed without an elapsed prefix.
	reDownloading = regexp.MustCompile(`Downloading ([\w.-]+) \(([0-9]+(?:\.[0-9]+)?)MiB\)`)

	// "... frame=Data { stream_id: StreamId(7) }" with an elapsed prefix.
	reDataFrame = regexp.MustCompile(`frame=Data \{ stream_id: StreamId\((\d+)\)`)
)

// endStreamFlag marks a stream's final DATA frame.
const endStreamFlag = "END_STREAM"

// FrameGapStats summarizes inter-DATA-frame gaps across all streams.
// Durations are in seconds.
type FrameGapStats struct {
	Count int64
	P50   float64
	P95   float64
	P99   float64
}

// Extractor recognizes download-relevant trace lines and builds the timeline.
// It implements trace.LineConsumer; correlation is purely by stream id, never
// by line adjacency, so interleaved streams are handled naturally.
type Extractor struct {
	correlator *Correlator
	timeline   *Timeline

	// Inter-frame gap percentiles, per stream, merged into one digest.
	gapDigest   *tdigest.TDigest
	gapCount    int64
	lastFrameAt map[int]float64
}

// NewExtractor creates an extractor feeding a fresh timeline.
func NewExtractor() *Extractor {
	return &Extractor{
		correlator:  NewCorrelator(),
		timeline:    NewTimeline(),
		gapDigest:   tdigest.NewWithCompression(100),
		lastFrameAt: make(map[int]float64),
	}
}

// ConsumeLine implements trace.LineConsumer.
//
// Size announcements for packages absent from the correlation table are
// dropped: records are created strictly from successfully correlated
// announcements. Unmatched lines are never an error.
func (x *Extractor) ConsumeLine(ln trace.LogLine) {
	x.correlator.Observe(ln.Raw)

	if m := reDownloading.FindStringSubmatch(ln.Raw); m != nil {
		x.handleAnnouncement(ln, m[1], m[2])
	}

	// Everything below requires frame timing.
	if !ln.HasElapsed {
		return
	}

	if m := reDataFrame.FindStringSubmatch(ln.Raw); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		x.handleDataFrame(ln, id)
	}
}

// handleAnnouncement registers a pending download for a correlated package.
func (x *Extractor) handleAnnouncement(ln trace.LogLine, pkg, sizeStr string) {
	size, err := strconv.ParseFloat(sizeStr, 64)
	if err != nil {
		return
	}
	streamID, ok := x.correlator.StreamFor(pkg)
	if !ok {
		return
	}
	x.timeline.Register(pkg, streamID, size, ln.Num)
}

// handleDataFrame advances the record for a stream's DATA frame. The first
// frame of a pending download is its effective start; a frame carrying
// END_STREAM terminates it.
func (x *Extractor) handleDataFrame(ln trace.LogLine, streamID int) {
	d := x.timeline.Get(streamID)
	if d == nil {
		return
	}

	if !d.Started {
		d.Started = true
		d.StartTime = ln.Elapsed
		d.StartLine = ln.Num
		x.timeline.appendEvent(Event{
			Elapsed:  ln.Elapsed,
			LineNum:  ln.Num,
			Package:  d.Package,
			Kind:     KindStart,
			StreamID: streamID,
			SizeMiB:  d.SizeMiB,
		})
	}

	if !d.Ended {
		d.DataFrames++
		if last, ok := x.lastFrameAt[streamID]; ok {
			x.gapDigest.Add(ln.Elapsed-last, 1)
			x.gapCount++
		}
		x.lastFrameAt[streamID] = ln.Elapsed
	}

	if !d.Ended && strings.Contains(ln.Raw, endStreamFlag) {
		d.Ended = true
		d.EndTime = ln.Elapsed
		d.EndLine = ln.Num
		x.timeline.appendEvent(Event{
			Elapsed:  ln.Elapsed,
			LineNum:  ln.Num,
			Package:  d.Package,
			Kind:     KindEnd,
			StreamID: streamID,
		})
	}
}

// Timeline returns the timeline under construction.
func (x *Extractor) Timeline() *Timeline {
	return x.timeline
}

// FrameGaps returns inter-frame gap percentiles across all streams.
func (x *Extractor) FrameGaps() FrameGapStats {
	s := FrameGapStats{Count: x.gapCount}
	if x.gapCount > 0 {
		s.P50 = x.gapDigest.Quantile(0.50)
		s.P95 = x.gapDigest.Quantile(0.95)
		s.P99 = x.gapDigest.Quantile(0.99)
	}
	return s
}
