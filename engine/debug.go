package engine

import "github.com/go-logr/logr"

var internalLogger = logr.Discard()

// SetInternalLogger sets the logger used by the engine. By default all engine logs are discarded.
func SetInternalLogger(logger logr.Logger) {
	internalLogger = logger.WithName("hackemon")
}

var (
	sessionLogger = func() logr.Logger { return internalLogger.WithName("session") }
	turnLogger    = func() logr.Logger { return internalLogger.WithName("turn") }
	damageLogger  = func() logr.Logger { return internalLogger.WithName("damage") }
	contentLogger = func() logr.Logger { return internalLogger.WithName("content") }
)
