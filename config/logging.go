package config

import (
	"io"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logFile = "abalone-local/debug.log"

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// SetupLogging points the global logger at w.
func SetupLogging(w io.Writer, level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetupConsoleLogging logs human readable lines to stderr.
func SetupConsoleLogging(level string) {
	SetupLogging(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, level)
}

// OpenLogFile opens the debug log in the XDG state directory. The terminal
// owns stdout and stderr while the board is shown, so the interactive
// program logs there instead.
func OpenLogFile() (*os.File, string, error) {
	path, err := xdg.StateFile(logFile)
	if err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
