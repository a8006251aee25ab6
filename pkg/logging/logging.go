// Package logging sets up the conf-sync process logger.
//
// Console output is human readable and goes to stderr. Every event is also
// appended as JSON to a log file in the XDG state directory, so a failed
// update can be investigated after the fact. Packages take an optional
// *zerolog.Logger and fall back to a component logger with Component.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// AppName names the state directory
	AppName = "conf-sync"

	// LogFileName is the log file inside the state directory
	LogFileName = AppName + ".log"
)

// verbosityLevels maps the -v count to a level; counts past the end trace
var verbosityLevels = []zerolog.Level{
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
	zerolog.TraceLevel,
}

// Options configure Setup
type Options struct {
	Verbosity int

	// Console receives the human-readable stream. Nil means stderr.
	Console io.Writer

	// LogFile defaults to LogFilePath()
	LogFile string
	NoFile  bool
}

// LevelFor returns the level selected by a -v count
func LevelFor(verbosity int) zerolog.Level {
	return verbosityLevels[max(0, min(verbosity, len(verbosityLevels)-1))]
}

// LogFilePath is where Setup appends by default
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, LogFileName)
}

// Setup replaces the process logger. An unusable log file is reported on the
// console and otherwise ignored.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	path := opts.LogFile
	if path == "" {
		path = LogFilePath()
	}
	var fileErr error
	if !opts.NoFile {
		var f *os.File
		if f, fileErr = openLogFile(path); fileErr == nil {
			writers = append(writers, f)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("log_file", path).Msg("Logger ready")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// GetLogger derives a logger tagged with component from the process logger
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Component returns the injected logger when there is one, otherwise a
// component logger derived from the process logger.
func Component(injected *zerolog.Logger, name string) zerolog.Logger {
	if injected != nil {
		return *injected
	}
	return GetLogger(name)
}

// LogExec records an external program about to run
func LogExec(logger zerolog.Logger, binary string, args []string) {
	logger.Debug().Str("binary", binary).Strs("args", args).Msg("Running external command")
}

// Timed logs the start of operation and returns the call that logs its end
// with the elapsed time.
func Timed(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Started")

	return func() {
		logger.Debug().Str("operation", operation).Dur("took", time.Since(start)).Msg("Finished")
	}
}
