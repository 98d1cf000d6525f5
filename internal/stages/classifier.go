package stages

import (
	"github.com/randomizedcoder/go-uv-install-trace/internal/trace"
)

// TransitionCallback is called for each forward move as it happens.
// Stage classification is incremental; callers that want live progress
// (logging, TUI updates) register a callback instead of waiting for EOF.
type TransitionCallback func(Transition)

// Classifier is a table-driven, forward-only state machine over the uv
// install pipeline. It is permissive: unparseable or out-of-order traces
// never raise an error, the classifier simply stalls in its current stage.
type Classifier struct {
	profile  Profile
	rules    map[Stage][]rule
	callback TransitionCallback

	current  Stage
	history  []Transition
	counters Counters
}

// New creates a classifier for the given profile, starting at initializing.
// callback may be nil.
func New(profile Profile, callback TransitionCallback) *Classifier {
	if !profile.Valid() {
		profile = ProfileStrict
	}
	return &Classifier{
		profile:  profile,
		rules:    ruleTable(profile),
		callback: callback,
		current:  StageInitializing,
	}
}

// Feed evaluates the current stage's trigger rules against the line.
// On the first match it advances, records the transition, applies the rule's
// counter extraction, and returns the transition. Unmatched lines return
// (Transition{}, false) and leave all state unchanged.
func (c *Classifier) Feed(ln trace.LogLine) (Transition, bool) {
	for _, r := range c.rules[c.current] {
		if !r.match(ln) {
			continue
		}
		c.current = r.next
		t := Transition{Stage: r.next, Line: ln.Raw, LineNum: ln.Num}
		c.history = append(c.history, t)
		if r.extract != nil {
			r.extract(ln.Raw, &c.counters)
		}
		if c.callback != nil {
			c.callback(t)
		}
		return t, true
	}
	return Transition{}, false
}

// ConsumeLine implements trace.LineConsumer.
func (c *Classifier) ConsumeLine(ln trace.LogLine) {
	c.Feed(ln)
}

// Current returns the stage the classifier is in.
func (c *Classifier) Current() Stage {
	return c.current
}

// History returns the ordered transition sequence. The returned slice is the
// classifier's own; callers must not mutate it.
func (c *Classifier) History() []Transition {
	return c.history
}

// Counters returns the package counts extracted so far.
func (c *Classifier) Counters() Counters {
	return c.counters
}

// Profile returns the active rule profile.
func (c *Classifier) Profile() Profile {
	return c.profile
}
