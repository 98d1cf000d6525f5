package download

import "sort"

// Timeline holds the per-stream download records and the ordered start/end
// event sequence. It is mutated only by the Extractor during the scan and is
// read-only afterwards.
type Timeline struct {
	byStream map[int]*PackageDownload
	events   []Event
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{byStream: make(map[int]*PackageDownload)}
}

// Register creates the pending record for a correlated size announcement.
// The start time stays unset until the stream's first DATA frame arrives.
// A stream id maps to at most one record per trace; duplicate announcements
// for an already-registered stream are ignored.
func (t *Timeline) Register(pkg string, streamID int, sizeMiB float64, lineNum int) *PackageDownload {
	if d, ok := t.byStream[streamID]; ok {
		return d
	}
	d := &PackageDownload{
		Package:   pkg,
		StreamID:  streamID,
		StartLine: lineNum,
		SizeMiB:   sizeMiB,
		HasSize:   true,
	}
	t.byStream[streamID] = d
	return d
}

// Get returns the record for a stream id, or nil when the stream was never
// correlated to a package.
func (t *Timeline) Get(streamID int) *PackageDownload {
	return t.byStream[streamID]
}

// appendEvent records a start/end event in trace order.
func (t *Timeline) appendEvent(e Event) {
	t.events = append(t.events, e)
}

// Downloads returns all records ordered by start time ascending.
func (t *Timeline) Downloads() []*PackageDownload {
	out := make([]*PackageDownload, 0, len(t.byStream))
	for _, d := range t.byStream {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].StreamID < out[j].StreamID
	})
	return out
}

// Events returns the start/end events in the order they were extracted.
func (t *Timeline) Events() []Event {
	return t.events
}

// Total returns the number of download records.
func (t *Timeline) Total() int {
	return len(t.byStream)
}

// Completed returns the number of downloads with both start and end observed.
func (t *Timeline) Completed() int {
	n := 0
	for _, d := range t.byStream {
		if d.Complete() {
			n++
		}
	}
	return n
}

// Incomplete returns the number of downloads missing a start or an end.
func (t *Timeline) Incomplete() int {
	return t.Total() - t.Completed()
}
