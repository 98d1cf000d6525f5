package stages

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/randomizedcoder/go-uv-install-trace/internal/trace"
)

// Profile selects which trigger-rule table drives the classifier.
//
// The two tables differ in how they anchor: strict matches uv's
// fully-qualified internal log markers (unlikely to false-positive across
// unrelated lines), loose matches short human-readable phrases and extends
// into a terminal "complete" stage after the final summary.
type Profile string

const (
	ProfileStrict Profile = "strict"
	ProfileLoose  Profile = "loose"
)

// Valid reports whether p names a known profile.
func (p Profile) Valid() bool {
	return p == ProfileStrict || p == ProfileLoose
}

// rule is one entry of a stage's ordered trigger list. The first rule whose
// match fires advances the classifier to next; extract, when non-nil, pulls a
// counter out of the trigger line as a side effect.
type rule struct {
	match   func(ln trace.LogLine) bool
	next    Stage
	extract func(line string, c *Counters)
}

// Pre-compiled trigger patterns for uv -v debug output.
var (
	// "   0.001s   DEBUG uv uv 0.4.27 (a1b2c3d4e 2024-10-25)"
	reVersionBanner = regexp.MustCompile(`^\s*[\d.]+\w*\s+DEBUG\s+uv\s+uv\s+[\d.]+\s+\([a-f0-9]+\s+\d{4}-\d{2}-\d{2}\)`)

	// "DEBUG uv_resolver::resolver Solving with installed Python version: 3.12.1"
	reSolvingWith = regexp.MustCompile(`DEBUG\s+uv_resolver::resolver\s+Solving\s+with\s+installed\s+Python\s+version:\s+[\d.]+`)

	// "DEBUG uv_client::cached_client Found fresh response for: https://pypi.org/simple/torch/"
	reCacheFresh = regexp.MustCompile(`DEBUG\s+uv_client::cached_client\s+Found\s+fresh\s+response\s+for:\s+https://pypi\.org/simple/`)

	// "uv_client::registry_client::parse_simple_api package=torch"
	reParseSimpleAPI = regexp.MustCompile(`uv_client::registry_client::parse_simple_api\s+package=\w+`)

	// "INFO pubgrub::internal::partial_solution add_decision: Id::<PubGrubPackage>(1) @ 2.1.0"
	// Package id 0 is the virtual root; only a decision for a real package
	// marks the start of dependency resolution.
	reSolverDecision = regexp.MustCompile(`INFO\s+pubgrub::internal::partial_solution\s+add_decision:\s+Id::<PubGrubPackage>\((\d+)\)`)

	// "Resolved 3 packages in 120ms"
	reResolvedSummary = regexp.MustCompile(`^Resolved\s+(\d+)\s+packages?\s+in\s+[\d.]+\w+`)

	// "DEBUG uv_installer::plan Registry requirement already cached: numpy==1.26.0"
	rePlanMessage = regexp.MustCompile(`DEBUG\s+uv_installer::plan\s+(Registry requirement|Requirement|Identified|Unnecessary)`)

	// "DEBUG uv_installer::preparer::prepare total=3"
	rePrepareTotal = regexp.MustCompile(`uv_installer::preparer::prepare\s+total=\d+`)

	// "DEBUG uv_installer::installer::install_blocking num_wheels=3"
	reInstallBlocking = regexp.MustCompile(`uv_installer::installer::install_blocking\s+num_wheels=\d+`)

	// "Prepared 3 packages in 2.5s"
	rePreparedSummary = regexp.MustCompile(`^Prepared\s+(\d+)\s+packages?\s+in\s+[\d.]+\w+`)

	// "Installed 3 packages in 200ms"
	reInstalledSummary = regexp.MustCompile(`^Installed\s+(\d+)\s+packages?\s+in\s+[\d.]+\w+`)

	reResolvedCount  = regexp.MustCompile(`Resolved\s+(\d+)\s+packages?`)
	rePreparedCount  = regexp.MustCompile(`Prepared\s+(\d+)\s+packages?`)
	reInstalledCount = regexp.MustCompile(`Installed\s+(\d+)\s+packages?`)
)

// matchRe adapts a regexp to the rule predicate shape.
func matchRe(re *regexp.Regexp) func(trace.LogLine) bool {
	return func(ln trace.LogLine) bool { return re.MatchString(ln.Raw) }
}

// matchAny fires when the line contains any of the given fragments.
func matchAny(fragments ...string) func(trace.LogLine) bool {
	return func(ln trace.LogLine) bool {
		for _, f := range fragments {
			if strings.Contains(ln.Raw, f) {
				return true
			}
		}
		return false
	}
}

// matchSolverDecision fires on the first solver decision for a non-root
// package (id != 0).
func matchSolverDecision(ln trace.LogLine) bool {
	m := reSolverDecision.FindStringSubmatch(ln.Raw)
	if m == nil {
		return false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return id != 0
}

// matchNonContinuation fires on the first line after the final summary that
// is not part of the install listing (uv prints " + name==version" per
// package, and "-"/"~" for removals and updates).
func matchNonContinuation(ln trace.LogLine) bool {
	trimmed := strings.TrimSpace(ln.Raw)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '+', '-', '~':
		return false
	}
	return true
}

func extractCount(re *regexp.Regexp, line string) (int, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractResolved(line string, c *Counters) {
	if n, ok := extractCount(reResolvedCount, line); ok {
		c.Resolved = n
	}
}

func extractPrepared(line string, c *Counters) {
	if n, ok := extractCount(rePreparedCount, line); ok {
		c.Prepared = n
	}
}

func extractInstalled(line string, c *Counters) {
	if n, ok := extractCount(reInstalledCount, line); ok {
		c.Installed = n
	}
}

// ruleTable returns the trigger table for the given profile:
// stage -> ordered rules, evaluated only while that stage is active.
func ruleTable(p Profile) map[Stage][]rule {
	if p == ProfileLoose {
		return looseRules()
	}
	return strictRules()
}

func strictRules() map[Stage][]rule {
	return map[Stage][]rule{
		StageInitializing: {
			{match: matchRe(reVersionBanner), next: StageStartup},
		},
		StageStartup: {
			{match: matchRe(reSolvingWith), next: StageResolutionSetup},
		},
		StageResolutionSetup: {
			// Cache hit path and cache miss (metadata download) path.
			{match: matchRe(reCacheFresh), next: StageCacheAndMetadata},
			{match: matchRe(reParseSimpleAPI), next: StageCacheAndMetadata},
		},
		StageCacheAndMetadata: {
			{match: matchSolverDecision, next: StageDependencyResolution},
		},
		StageDependencyResolution: {
			{match: matchRe(reResolvedSummary), next: StageResolutionSummary, extract: extractResolved},
		},
		StageResolutionSummary: {
			{match: matchRe(rePlanMessage), next: StageInstallationPlanning},
		},
		StageInstallationPlanning: {
			{match: matchRe(rePrepareTotal), next: StagePackageDownloads},
			// Everything already cached: installer starts without downloads.
			{match: matchRe(reInstallBlocking), next: StageInstallation},
		},
		StagePackageDownloads: {
			{match: matchRe(rePreparedSummary), next: StagePackagePreparation, extract: extractPrepared},
		},
		StagePackagePreparation: {
			{match: matchRe(reInstallBlocking), next: StageInstallation},
		},
		StageInstallation: {
			{match: matchRe(reInstalledSummary), next: StageFinalSummary, extract: extractInstalled},
		},
	}
}

func looseRules() map[Stage][]rule {
	return map[Stage][]rule{
		StageInitializing: {
			{match: matchAny("DEBUG uv uv "), next: StageStartup},
		},
		StageStartup: {
			{match: matchAny("Solving with installed Python version"), next: StageResolutionSetup},
		},
		StageResolutionSetup: {
			{match: matchAny("Found fresh response for", "parse_simple_api"), next: StageCacheAndMetadata},
		},
		StageCacheAndMetadata: {
			{match: matchAny("add_decision"), next: StageDependencyResolution},
		},
		StageDependencyResolution: {
			{match: matchRe(reResolvedSummary), next: StageResolutionSummary, extract: extractResolved},
		},
		StageResolutionSummary: {
			{match: matchAny("Registry requirement", "Requirement already", "Identified", "Unnecessary"), next: StageInstallationPlanning},
		},
		StageInstallationPlanning: {
			{match: matchAny("prepare total=", "Downloading "), next: StagePackageDownloads},
			{match: matchAny("install_blocking"), next: StageInstallation},
		},
		StagePackageDownloads: {
			{match: matchRe(rePreparedSummary), next: StagePackagePreparation, extract: extractPrepared},
		},
		StagePackagePreparation: {
			{match: matchAny("install_blocking"), next: StageInstallation},
		},
		StageInstallation: {
			{match: matchRe(reInstalledSummary), next: StageFinalSummary, extract: extractInstalled},
		},
		StageFinalSummary: {
			{match: matchNonContinuation, next: StageComplete},
		},
	}
}
