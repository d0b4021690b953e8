// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Setup installs the default logger at the given level. Terminals get
// colored console output, everything else gets JSON lines on stderr.
func Setup(level string) {
	lvl := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if strings.TrimSpace(level) == "" {
		lvl = log.InfoLevel
	}

	var writer log.Writer = &log.IOWriter{Writer: os.Stderr}
	if log.IsTerminal(os.Stderr.Fd()) {
		writer = &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		}
	}

	log.DefaultLogger = log.Logger{
		Level:      lvl,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Writer:     writer,
	}
}
