package future

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().
			Level(zerolog.WarnLevel)
)

// NewLogger builds a console logger at the given level, suitable for
// passing to SetLogger. Host applications typically derive level from
// config.Config.ParseLogLevel.
func NewLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
}

// SetLogger replaces the package-level logger used for warn-level
// diagnostics (e.g. AlreadySatisfied producer calls). It is not required
// for normal operation; the default writes to stderr at warn level.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func log() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return &logger
}
