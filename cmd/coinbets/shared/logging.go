package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a pretty console logger on stderr
func SetupLogger(debug bool) *log.Logger {
	return NewLogger(os.Stderr, debug)
}

// NewLogger builds the CLI logger writing to w.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}
