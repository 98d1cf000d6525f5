package download

import (
	"regexp"
	"strconv"
	"strings"
)

// Correlator binds package names to HTTP/2 stream ids by observing header
// traffic: a wheel-request URL line names the package, and the next HEADERS
// frame sent by the client carries the stream id that will serve it.
//
// This replaces name-to-id lookup tables: the binding is derived from the
// trace itself, so any package uv downloads correlates without configuration.
type Correlator struct {
	pending string // package named by the most recent wheel URL, not yet bound
	streams map[string]int
}

var (
	// "... https://files.pythonhosted.org/packages/ab/cd/torch-2.1.0-cp312-cp312-linux_x86_64.whl"
	// The wheel filename's distribution segment names the package.
	reWheelURL = regexp.MustCompile(`https://files\.pythonhosted\.org/packages/[^\s']+/([A-Za-z0-9_.]+)-[0-9][^\s'/]*\.whl`)

	// "DEBUG h2::codec::framed_write send frame=Headers { stream_id: StreamId(7), flags: (0x4: END_HEADERS) }"
	// Only client-sent HEADERS open a request stream; received HEADERS are
	// responses on already-bound streams.
	reHeadersFrame = regexp.MustCompile(`send frame=Headers \{ stream_id: StreamId\((\d+)\)`)
)

// NewCorrelator creates an empty correlation table.
func NewCorrelator() *Correlator {
	return &Correlator{streams: make(map[string]int)}
}

// Observe inspects one trace line and updates the correlation table.
// Lines that are neither wheel URLs nor sent HEADERS frames are ignored.
func (c *Correlator) Observe(line string) {
	if m := reWheelURL.FindStringSubmatch(line); m != nil {
		c.pending = normalizeName(m[1])
		return
	}
	if c.pending == "" {
		return
	}
	if m := reHeadersFrame.FindStringSubmatch(line); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		c.streams[c.pending] = id
		c.pending = ""
	}
}

// StreamFor resolves the stream id serving the named package.
// Returns false when no header binding was observed for it.
func (c *Correlator) StreamFor(pkg string) (int, bool) {
	id, ok := c.streams[normalizeName(pkg)]
	return id, ok
}

// normalizeName applies PEP 503 normalization so that wheel filenames
// ("typing_extensions") and announcement names ("typing-extensions") agree.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
