// Package cli implements the critpath command-line interface.
//
// # Commands
//
// The main commands are:
//   - analyze: Compute the schedule of a task file and print it as a table or JSON
//   - render: Draw the network diagram as SVG, PNG, PDF or DOT
//   - browse: Explore the schedule interactively in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the rendered-diagram cache
//
// # Configuration
//
// Defaults come from the TOML file named by --config (see internal/config);
// command-line flags override them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr so that `critpath analyze --json` can be piped.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 2 files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
