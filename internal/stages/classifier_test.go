package stages

import (
	"testing"

	"github.com/randomizedcoder/go-uv-install-trace/internal/trace"
)

// fullInstallTrace is a minimal trace that walks every strict stage in order.
var fullInstallTrace = []string{
	"     0.001s   DEBUG uv uv 0.4.27 (a1b2c3d4e 2024-10-25)",
	"     0.005s DEBUG uv_client::base_client Using request timeout of 30s",
	"     0.010s DEBUG uv_resolver::resolver Solving with installed Python version: 3.12.1",
	"     0.050s DEBUG uv_client::cached_client Found fresh response for: https://pypi.org/simple/torch/",
	"     0.080s  INFO pubgrub::internal::partial_solution add_decision: Id::<PubGrubPackage>(1) @ 2.1.0",
	"Resolved 3 packages in 120ms",
	"     0.150s DEBUG uv_installer::plan Registry requirement already cached: typing-extensions==4.9.0",
	"     0.200s DEBUG uv_installer::preparer::prepare total=3",
	"Prepared 3 packages in 2.5s",
	"     3.100s DEBUG uv_installer::installer::install_blocking num_wheels=3",
	"Installed 3 packages in 200ms",
}

func feedAll(c *Classifier, lines []string) {
	for i, l := range lines {
		c.Feed(trace.NewLogLine(i+1, l))
	}
}

func TestClassifier_FullProgression(t *testing.T) {
	c := New(ProfileStrict, nil)

	if c.Current() != StageInitializing {
		t.Fatalf("initial stage = %s, want %s", c.Current(), StageInitializing)
	}

	feedAll(c, fullInstallTrace)

	want := []Stage{
		StageStartup,
		StageResolutionSetup,
		StageCacheAndMetadata,
		StageDependencyResolution,
		StageResolutionSummary,
		StageInstallationPlanning,
		StagePackageDownloads,
		StagePackagePreparation,
		StageInstallation,
		StageFinalSummary,
	}

	hist := c.History()
	if len(hist) != len(want) {
		t.Fatalf("got %d transitions, want %d: %+v", len(hist), len(want), hist)
	}
	for i, tr := range hist {
		if tr.Stage != want[i] {
			t.Errorf("transition %d = %s, want %s (line %d: %q)",
				i, tr.Stage, want[i], tr.LineNum, tr.Line)
		}
	}
	if c.Current() != StageFinalSummary {
		t.Errorf("final stage = %s, want %s", c.Current(), StageFinalSummary)
	}
}

func TestClassifier_StagesStrictlyIncrease(t *testing.T) {
	c := New(ProfileStrict, nil)
	feedAll(c, fullInstallTrace)

	prev := StageInitializing
	for _, tr := range c.History() {
		if tr.Stage <= prev {
			t.Errorf("stage %s does not advance past %s", tr.Stage, prev)
		}
		prev = tr.Stage
	}
}

func TestClassifier_UnmatchedLinesLeaveStateUnchanged(t *testing.T) {
	c := New(ProfileStrict, nil)

	noise := []string{
		"",
		"     0.002s DEBUG uv_client::base_client Using request timeout of 30s",
		"random garbage that matches nothing",
		// Later-stage triggers must not fire out of order.
		"Installed 3 packages in 200ms",
	}
	for i, l := range noise {
		if _, ok := c.Feed(trace.NewLogLine(i+1, l)); ok {
			t.Errorf("line %q advanced the classifier", l)
		}
	}

	if c.Current() != StageInitializing {
		t.Errorf("stage = %s, want %s", c.Current(), StageInitializing)
	}
	if len(c.History()) != 0 {
		t.Errorf("history = %+v, want empty", c.History())
	}
}

func TestClassifier_Counters(t *testing.T) {
	c := New(ProfileStrict, nil)
	feedAll(c, fullInstallTrace)

	got := c.Counters()
	if got.Resolved != 3 || got.Prepared != 3 || got.Installed != 3 {
		t.Errorf("counters = %+v, want {3 3 3}", got)
	}
}

func TestClassifier_PlanningSkipsToInstallation(t *testing.T) {
	// Everything already cached: the preparer never runs and planning jumps
	// straight to installation.
	lines := []string{
		"     0.001s   DEBUG uv uv 0.4.27 (a1b2c3d4e 2024-10-25)",
		"     0.010s DEBUG uv_resolver::resolver Solving with installed Python version: 3.12.1",
		"     0.050s DEBUG uv_client::cached_client Found fresh response for: https://pypi.org/simple/torch/",
		"     0.080s  INFO pubgrub::internal::partial_solution add_decision: Id::<PubGrubPackage>(1) @ 2.1.0",
		"Resolved 3 packages in 50ms",
		"     0.100s DEBUG uv_installer::plan Registry requirement already cached: torch==2.1.0",
		"     0.120s DEBUG uv_installer::installer::install_blocking num_wheels=3",
		"Installed 3 packages in 80ms",
	}

	c := New(ProfileStrict, nil)
	feedAll(c, lines)

	if c.Current() != StageFinalSummary {
		t.Fatalf("final stage = %s, want %s", c.Current(), StageFinalSummary)
	}
	for _, tr := range c.History() {
		if tr.Stage == StagePackageDownloads || tr.Stage == StagePackagePreparation {
			t.Errorf("unexpected transition through %s", tr.Stage)
		}
	}
	if got := c.Counters(); got.Prepared != 0 {
		t.Errorf("Prepared = %d, want 0 on skip path", got.Prepared)
	}
}

func TestClassifier_RootDecisionDoesNotAdvance(t *testing.T) {
	c := New(ProfileStrict, nil)
	feedAll(c, []string{
		"     0.001s   DEBUG uv uv 0.4.27 (a1b2c3d4e 2024-10-25)",
		"     0.010s DEBUG uv_resolver::resolver Solving with installed Python version: 3.12.1",
		"     0.050s DEBUG uv_client::cached_client Found fresh response for: https://pypi.org/simple/torch/",
		"     0.070s  INFO pubgrub::internal::partial_solution add_decision: Id::<PubGrubPackage>(0) @ 0a0.dev0",
	})

	if c.Current() != StageCacheAndMetadata {
		t.Errorf("stage = %s, want %s (virtual-root decision must not count)",
			c.Current(), StageCacheAndMetadata)
	}
}

func TestClassifier_LooseProfileReachesComplete(t *testing.T) {
	lines := append([]string{}, fullInstallTrace...)
	lines = append(lines,
		" + torch==2.1.0",
		" + numpy==1.26.0",
		" + scipy==1.11.0",
		"audited 3 packages in 1ms",
	)

	c := New(ProfileLoose, nil)
	feedAll(c, lines)

	if c.Current() != StageComplete {
		t.Fatalf("final stage = %s, want %s", c.Current(), StageComplete)
	}

	hist := c.History()
	last := hist[len(hist)-1]
	if last.Line != "audited 3 packages in 1ms" {
		t.Errorf("complete trigger = %q, want the first non-listing line", last.Line)
	}
}

func TestClassifier_Callback(t *testing.T) {
	var seen []Transition
	c := New(ProfileStrict, func(tr Transition) {
		seen = append(seen, tr)
	})
	feedAll(c, fullInstallTrace)

	if len(seen) != len(c.History()) {
		t.Fatalf("callback saw %d transitions, history has %d", len(seen), len(c.History()))
	}
	for i := range seen {
		if seen[i] != c.History()[i] {
			t.Errorf("callback transition %d = %+v, history has %+v", i, seen[i], c.History()[i])
		}
	}
}

func TestClassifier_InvalidProfileFallsBackToStrict(t *testing.T) {
	c := New(Profile("bogus"), nil)
	if c.Profile() != ProfileStrict {
		t.Errorf("profile = %s, want %s", c.Profile(), ProfileStrict)
	}
}
