// Package config provides configuration management for go-uv-install-trace.
package config

// DefaultTracePath is analyzed when no positional argument is given.
// uv's debug output is commonly teed here during troubleshooting sessions.
const DefaultTracePath = "/tmp/uv_debug_output.log"

// Config holds all configuration options for the analyzer.
type Config struct {
	// Input
	TracePath string `json:"trace_path" toml:"trace_path"`

	// Analysis
	Profile string `json:"profile" toml:"profile"` // strict, loose

	// Report
	TimelineWidth int  `json:"timeline_width" toml:"timeline_width"`
	ShowFrameGaps bool `json:"show_frame_gaps" toml:"show_frame_gaps"`

	// Output modes
	TUIEnabled   bool   `json:"tui" toml:"tui"`
	PromTextfile string `json:"prom_textfile" toml:"prom_textfile"`

	// Observability
	Verbose   bool   `json:"verbose" toml:"verbose"`
	LogFormat string `json:"log_format" toml:"log_format"` // json, text

	// ConfigFile is the TOML file the rest of the config was layered from.
	// Set by flag parsing, never by the file itself.
	ConfigFile string `json:"config_file" toml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TracePath: DefaultTracePath,

		Profile: "strict",

		TimelineWidth: 50,
		ShowFrameGaps: true,

		TUIEnabled:   false,
		PromTextfile: "",

		Verbose:   false,
		LogFormat: "text",
	}
}
