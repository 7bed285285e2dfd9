// Package logging configures the standard logger and gates debug output.
package logging

import (
	"log"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

// Setup configures the default logger. Debug lines are emitted only when
// verbose is true or LEADFLOW_DEBUG is set.
func Setup(v bool) {
	log.SetFlags(log.LstdFlags)
	log.SetOutput(os.Stderr)
	verbose.Store(v || os.Getenv("LEADFLOW_DEBUG") != "")
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// Debugf logs with a [DEBUG] prefix when verbose logging is enabled.
func Debugf(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}
