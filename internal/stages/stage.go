// Package stages classifies uv install traces into pipeline stages.
//
// uv's documented install pipeline passes through a fixed, ordered set of
// phases. The classifier is a forward-only state machine: it consumes trace
// lines one at a time and advances whenever a trigger rule for the current
// stage matches. It never regresses, and lines that match no rule are
// silently absorbed.
package stages

// Stage identifies one phase of the uv install pipeline.
// The ordering of the constants is significant: the classifier only ever
// advances toward higher values.
type Stage int

const (
	StageInitializing Stage = iota
	StageStartup
	StageResolutionSetup
	StageCacheAndMetadata
	StageDependencyResolution
	StageResolutionSummary
	StageInstallationPlanning
	StagePackageDownloads
	StagePackagePreparation
	StageInstallation
	StageFinalSummary
	StageComplete // loose profile only, after the final summary
)

var stageNames = [...]string{
	"initializing",
	"startup",
	"resolution-setup",
	"cache-checking-and-metadata",
	"dependency-resolution",
	"resolution-summary",
	"installation-planning",
	"package-downloads",
	"package-preparation",
	"installation",
	"final-summary",
	"complete",
}

// String returns the canonical stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Transition records one forward move of the classifier.
type Transition struct {
	// Stage is the resulting stage.
	Stage Stage

	// Line is the verbatim trigger line.
	Line string

	// LineNum is the 1-based number of the trigger line.
	LineNum int
}

// Counters holds the package counts announced by uv's summary lines.
type Counters struct {
	Resolved  int `json:"resolved"`
	Prepared  int `json:"prepared"`
	Installed int `json:"installed"`
}
