// Package download reconstructs the parallel-download timeline of one uv
// install run from its HTTP/2 frame trace.
//
// uv multiplexes package downloads over HTTP/2 streams. Three line shapes
// matter: a size announcement ("Downloading torch (50.0MiB)"), DATA frames
// tagged with a stream id, and the END_STREAM flag on a stream's final DATA
// frame. Correlation between a package name and its stream id happens via
// the HEADERS frame that opened the stream (see Correlator).
package download

// EventKind classifies a download event.
type EventKind int

const (
	// KindStart is emitted on the first DATA frame of a stream,
	// not on the size announcement. Intermediate DATA frames update the
	// per-download frame counter but are not stored as events.
	KindStart EventKind = iota

	// KindEnd is emitted when a DATA frame carries the END_STREAM flag.
	KindEnd
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	}
	return "unknown"
}

// Event is one structured download signal extracted from the trace.
type Event struct {
	Elapsed  float64
	LineNum  int
	Package  string
	Kind     EventKind
	StreamID int
	SizeMiB  float64 // 0 when unknown
}

// PackageDownload tracks one package's download, keyed by stream id.
// At most one PackageDownload exists per stream id for the lifetime of a
// trace. All fields are read-only once the scan completes.
type PackageDownload struct {
	Package  string
	StreamID int

	// StartTime/StartLine are set by the first DATA frame, not the
	// size announcement.
	Started   bool
	StartTime float64
	StartLine int

	Ended   bool
	EndTime float64
	EndLine int

	HasSize bool
	SizeMiB float64

	// DataFrames counts DATA frames observed while the download was
	// unterminated (the END_STREAM frame itself is counted).
	DataFrames int
}

// DurationMs returns the download duration in milliseconds.
// Present only once the download has both started and ended.
func (d *PackageDownload) DurationMs() (float64, bool) {
	if !d.Complete() {
		return 0, false
	}
	return (d.EndTime - d.StartTime) * 1000, true
}

// SpeedMbps returns the download throughput in megabits per second.
// Present only when both the size and the duration are known.
func (d *PackageDownload) SpeedMbps() (float64, bool) {
	ms, ok := d.DurationMs()
	if !ok || !d.HasSize || ms <= 0 {
		return 0, false
	}
	return (d.SizeMiB * 8) / (ms / 1000), true
}

// Complete reports whether both a start and an end were observed.
func (d *PackageDownload) Complete() bool {
	return d.Started && d.Ended
}
