// Package metrics exports analysis results in Prometheus text exposition
// format.
//
// A one-shot analyzer has no scrape endpoint to serve, so results are written
// as a textfile for the node_exporter textfile collector (or any other
// exposition-format consumer). Each run overwrites the file.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
)

// WriteTextfile writes the result's metrics to path.
// The write goes through a temp file and rename so a collector never reads a
// partially-written exposition.
func WriteTextfile(path string, res *analyzer.Result, version string) error {
	families, err := gather(res, version)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create textfile: %w", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close textfile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename textfile: %w", err)
	}
	return nil
}

// gather populates a dedicated registry from the result and collects it.
func gather(res *analyzer.Result, version string) ([]*dto.MetricFamily, error) {
	reg := prometheus.NewRegistry()

	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uv_trace_info",
			Help: "Information about the analysis (value always 1)",
		},
		[]string{"version", "profile"},
	)

	stagesReached := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uv_trace_stages_reached",
		Help: "Number of stage transitions recognized",
	})

	packages := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uv_trace_packages",
			Help: "Package counts announced by uv's summary lines",
		},
		[]string{"phase"},
	)

	downloadsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uv_trace_downloads_total",
		Help: "Download records reconstructed from the trace",
	})

	downloadsIncomplete := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uv_trace_downloads_incomplete",
		Help: "Downloads missing a start or end marker",
	})

	phaseDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uv_trace_download_phase_duration_seconds",
		Help: "Earliest download start to latest download end",
	})

	maxConcurrent := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uv_trace_max_concurrent_downloads",
		Help: "Peak number of simultaneously active downloads",
	})

	downloadDuration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uv_trace_download_duration_seconds",
			Help: "Per-package download duration",
		},
		[]string{"package"},
	)

	downloadSize := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uv_trace_download_size_mebibytes",
			Help: "Per-package download size",
		},
		[]string{"package"},
	)

	downloadSpeed := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uv_trace_download_speed_mbps",
			Help: "Per-package download throughput in megabits per second",
		},
		[]string{"package"},
	)

	collectors := []prometheus.Collector{
		info, stagesReached, packages,
		downloadsTotal, downloadsIncomplete, phaseDuration, maxConcurrent,
		downloadDuration, downloadSize, downloadSpeed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	info.WithLabelValues(version, string(res.Profile)).Set(1)
	stagesReached.Set(float64(len(res.Transitions)))
	packages.WithLabelValues("resolved").Set(float64(res.Counters.Resolved))
	packages.WithLabelValues("prepared").Set(float64(res.Counters.Prepared))
	packages.WithLabelValues("installed").Set(float64(res.Counters.Installed))

	downloadsTotal.Set(float64(len(res.Downloads)))
	downloadsIncomplete.Set(float64(len(res.IncompleteDownloads())))
	if res.Parallelism.HasPhaseDuration {
		phaseDuration.Set(res.Parallelism.PhaseDurationMs / 1000)
	}
	maxConcurrent.Set(float64(res.Parallelism.MaxConcurrent))

	for _, d := range res.Downloads {
		if ms, ok := d.DurationMs(); ok {
			downloadDuration.WithLabelValues(d.Package).Set(ms / 1000)
		}
		if d.HasSize {
			downloadSize.WithLabelValues(d.Package).Set(d.SizeMiB)
		}
		if speed, ok := d.SpeedMbps(); ok {
			downloadSpeed.WithLabelValues(d.Package).Set(speed)
		}
	}

	return reg.Gather()
}
