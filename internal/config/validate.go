package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randomizedcoder/go-uv-install-trace/internal/stages"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.TracePath == "" {
		errs = append(errs, ValidationError{
			Field:   "trace_path",
			Message: "trace file path is required",
		})
	}

	if !stages.Profile(cfg.Profile).Valid() {
		errs = append(errs, ValidationError{
			Field:   "profile",
			Message: fmt.Sprintf("must be one of: strict, loose (got %q)", cfg.Profile),
		})
	}

	if cfg.TimelineWidth < 10 || cfg.TimelineWidth > 200 {
		errs = append(errs, ValidationError{
			Field:   "timeline_width",
			Message: fmt.Sprintf("must be between 10 and 200 (got %d)", cfg.TimelineWidth),
		})
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf(`must be "json" or "text" (got %q)`, cfg.LogFormat),
		})
	}

	// The TUI renders the report itself; a textfile export alongside is fine,
	// but both consume the same single analysis pass, so nothing else to check.

	return errors.Join(errs...)
}
