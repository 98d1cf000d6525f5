package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
	"github.com/randomizedcoder/go-uv-install-trace/internal/download"
	"github.com/randomizedcoder/go-uv-install-trace/internal/parallel"
	"github.com/randomizedcoder/go-uv-install-trace/internal/stages"
)

func sampleResult() *analyzer.Result {
	torch := &download.PackageDownload{
		Package: "torch", StreamID: 7,
		Started: true, StartTime: 0.5,
		Ended: true, EndTime: 3.0,
		HasSize: true, SizeMiB: 50.0, DataFrames: 4,
	}
	return &analyzer.Result{
		LinesScanned: 32,
		Profile:      stages.ProfileStrict,
		Transitions:  make([]stages.Transition, 10),
		FinalStage:   stages.StageFinalSummary,
		Counters:     stages.Counters{Resolved: 3, Prepared: 3, Installed: 3},
		Downloads:    []*download.PackageDownload{torch},
		Parallelism: parallel.Result{
			PhaseDurationMs:  2500,
			HasPhaseDuration: true,
			MaxConcurrent:    3,
		},
	}
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uv_trace.prom")

	if err := WriteTextfile(path, sampleResult(), "1.0.0"); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`uv_trace_info{profile="strict",version="1.0.0"} 1`,
		"uv_trace_stages_reached 10",
		`uv_trace_packages{phase="resolved"} 3`,
		`uv_trace_packages{phase="installed"} 3`,
		"uv_trace_downloads_total 1",
		"uv_trace_downloads_incomplete 0",
		"uv_trace_download_phase_duration_seconds 2.5",
		"uv_trace_max_concurrent_downloads 3",
		`uv_trace_download_duration_seconds{package="torch"} 2.5`,
		`uv_trace_download_size_mebibytes{package="torch"} 50`,
		`uv_trace_download_speed_mbps{package="torch"} 160`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q\n%s", want, out)
		}
	}

	// No leftover temp file.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestWriteTextfile_OverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uv_trace.prom")
	if err := os.WriteFile(path, []byte("stale content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteTextfile(path, sampleResult(), "1.0.0"); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Error("previous run's content survived the rewrite")
	}
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "no", "such", "dir", "x.prom"), sampleResult(), "dev")
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
