package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LineConsumer receives trace lines in file order.
// Implemented by stages.Classifier and download.Extractor.
type LineConsumer interface {
	ConsumeLine(ln LogLine)
}

// ScanFile reads the trace at path and feeds every line, in order, to each
// consumer. Returns the number of lines scanned.
//
// A missing or unreadable file is the only fatal condition: the returned
// error satisfies errors.Is(err, fs.ErrNotExist) when the file is absent.
func ScanFile(path string, consumers ...LineConsumer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	return ScanReader(f, consumers...)
}

// ScanReader feeds every line of r, in order, to each consumer.
// Useful for testing and for reading from stdin.
func ScanReader(r io.Reader, consumers ...LineConsumer) (int, error) {
	scanner := bufio.NewScanner(r)

	// uv's HTTP/2 frame dumps can produce very long lines
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		ln := NewLogLine(n, scanner.Text())
		for _, c := range consumers {
			c.ConsumeLine(ln)
		}
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("scan trace: %w", err)
	}
	return n, nil
}
