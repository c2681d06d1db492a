package ebcot

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a zerolog.Logger writing to stderr. It is used
// sparingly by the facade -- one logger threaded through batch-level
// events, never inside the per-coefficient hot loops.
func NewLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// NewFileLogger returns a zerolog.Logger backed by a size-rotating log
// file, for long-running CLI invocations. maxSizeMB is the rotation
// threshold in megabytes.
func NewFileLogger(path string, maxSizeMB int) zerolog.Logger {
	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
