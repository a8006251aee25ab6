package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	original := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetup(t *testing.T) {
	restoreLogger(t)

	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "state", "conf-sync.log")
	Setup(Options{Verbosity: 1, Console: &console, LogFile: logFile})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	logger := GetLogger("cli")
	logger.Info().Msg("status computed")

	assert.Contains(t, console.String(), "status computed")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"cli"`)
	assert.Contains(t, string(data), `"message":"status computed"`)
}

func TestSetup_NoFile(t *testing.T) {
	restoreLogger(t)

	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "never.log")
	Setup(Options{Console: &console, LogFile: logFile, NoFile: true})

	log.Warn().Msg("console only")
	assert.Contains(t, console.String(), "console only")
	assert.NoFileExists(t, logFile)
}

func TestSetup_UnwritableLogFile(t *testing.T) {
	restoreLogger(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var console bytes.Buffer
	Setup(Options{Console: &console, LogFile: filepath.Join(blocker, "conf-sync.log")})
	assert.Contains(t, console.String(), "Log file unavailable")
}

func TestLogFilePath(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	xdg.Reload()

	assert.Equal(t, filepath.FromSlash("/custom/state/conf-sync/conf-sync.log"), LogFilePath())
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	restoreLogger(t)
	log.Logger = zerolog.New(&buf)

	t.Run("derives component logger when nothing injected", func(t *testing.T) {
		buf.Reset()
		logger := Component(nil, "sections")
		logger.Warn().Msg("hello")
		assert.Contains(t, buf.String(), `"component":"sections"`)
	})

	t.Run("prefers injected logger", func(t *testing.T) {
		var own bytes.Buffer
		injected := zerolog.New(&own)
		logger := Component(&injected, "sections")
		logger.Warn().Msg("hello")
		assert.Contains(t, own.String(), "hello")
		assert.NotContains(t, own.String(), "component")
	})
}

func TestLogExec(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogExec(logger, "git", []string{"rev-list", "--all"})

	assert.Contains(t, buf.String(), `"binary":"git"`)
	assert.Contains(t, buf.String(), "rev-list")
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := Timed(logger, "load")
	done()

	assert.Contains(t, buf.String(), "Started")
	assert.Contains(t, buf.String(), "Finished")
	assert.Contains(t, buf.String(), `"took"`)
}
