// Package logging provides construction of the structured leveled logger used
// by the command-line tools and the HTTP middleware.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var levels = map[string]zerolog.Level{
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
}

// New creates a json structured logger writing to stdout.
func New(level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is like New, but writes to the passed writer instead.
func NewWithWriter(w io.Writer, level string) (zerolog.Logger, error) {
	zerologLevel, exists := levels[strings.ToUpper(level)]
	if !exists {
		return zerolog.Nop(), fmt.Errorf("invalid log level provided %q", level)
	}

	return zerolog.New(w).Level(zerologLevel).With().Timestamp().Logger(), nil
}
