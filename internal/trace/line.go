// Package trace provides line-level access to uv debug traces.
//
// A trace is the line-oriented debug output of one `uv pip install` run.
// Lines may carry an elapsed-time prefix of the form "   0.123s " emitted
// by uv's timing layer; most lines do not.
package trace

import (
	"regexp"
	"strconv"
)

// reElapsed matches the optional leading elapsed-time prefix, e.g. "   1.234s".
// The unit suffix "s" must immediately follow the number.
var reElapsed = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)s`)

// LogLine is one line of a trace, immutable once read.
type LogLine struct {
	// Num is the 1-based line number within the trace.
	Num int

	// Raw is the unmodified line text (without trailing newline).
	Raw string

	// Elapsed is the parsed elapsed-time prefix in seconds.
	// Only meaningful when HasElapsed is true.
	Elapsed float64

	// HasElapsed reports whether the line carried an elapsed-time prefix.
	HasElapsed bool
}

// NewLogLine builds a LogLine, extracting the elapsed-time prefix if present.
func NewLogLine(num int, raw string) LogLine {
	ln := LogLine{Num: num, Raw: raw}
	ln.Elapsed, ln.HasElapsed = ExtractElapsed(raw)
	return ln
}

// ExtractElapsed parses the optional leading elapsed-time value from a line.
// Returns (0, false) when the prefix is absent or malformed; malformed
// numeric captures are treated as non-matches, never as errors.
func ExtractElapsed(line string) (float64, bool) {
	m := reElapsed.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
