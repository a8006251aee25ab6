package paths

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/quinox/confsync/pkg/vcs"
)

// Environment variable names
const (
	// EnvSourceRoot points at the source tree
	EnvSourceRoot = "CONF_SYNC_SOURCE"

	// EnvConfigDir overrides the XDG config directory for conf-sync
	EnvConfigDir = "CONF_SYNC_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "conf-sync"

	// ConfigFileName is the user configuration file inside ConfigDir
	ConfigFileName = "config.toml"

	// SourceConfigFile is the per-tree configuration file at the source root
	SourceConfigFile = ".conf-sync.toml"

	// LogFileName is the name of the log file
	LogFileName = logging.LogFileName
)

// Paths provides centralized path management for conf-sync
type Paths interface {
	SourceRoot() string
	UsedFallback() bool
	ConfigFilePath() string
	SourceConfigPath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsInSource(path string) (bool, error)
}

type paths struct {
	sourceRoot string
	xdgConfig  string

	// usedFallback indicates the cwd was used as source root
	usedFallback bool
}

// New creates a Paths instance. If sourceRoot is empty it is resolved from
// the environment, the enclosing git repository or the working directory.
func New(sourceRoot string) (Paths, error) {
	p := &paths{}

	if sourceRoot == "" {
		root, usedFallback, err := findSourceRoot()
		if err != nil {
			return nil, err
		}
		p.sourceRoot = root
		p.usedFallback = usedFallback
	} else {
		p.sourceRoot = expandHome(sourceRoot)
	}

	absRoot, err := filepath.Abs(p.sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for source root")
	}
	p.sourceRoot = absRoot

	p.setupXDGDirs()
	return p, nil
}

func (p *paths) setupXDGDirs() {
	p.xdgConfig = DefaultConfigDir()
}

// DefaultConfigDir returns the configuration directory, honouring
// CONF_SYNC_CONFIG_DIR. It does not need a source root.
func DefaultConfigDir() string {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		return expandHome(configDir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// findSourceRoot determines the source root using the following priority:
// 1. CONF_SYNC_SOURCE environment variable
// 2. Git repository root of the working directory
// 3. Current working directory (fallback)
func findSourceRoot() (string, bool, error) {
	if root := os.Getenv(EnvSourceRoot); root != "" {
		return expandHome(root), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrNotFound, "failed to get current directory")
	}

	top, err := vcs.NewGit(cwd, vcs.GitOptions{}).TopLevel(context.Background())
	if err == nil && top != "" {
		return top, false, nil
	}

	return cwd, true, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}

// ExpandHome expands a leading ~ in path
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrNotFound, "failed to get home directory")
	}
	return homeDir, nil
}

// SourceRoot returns the root of the source tree
func (p *paths) SourceRoot() string {
	return p.sourceRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigFilePath returns the user configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// SourceConfigPath returns the configuration file kept in the source tree
func (p *paths) SourceConfigPath() string {
	return filepath.Join(p.sourceRoot, SourceConfigFile)
}

// LogFilePath returns the path to the conf-sync log file
func (p *paths) LogFilePath() string {
	return logging.LogFilePath()
}

// NormalizePath expands home, makes the path absolute and cleans it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}

// IsInSource checks if a path is within the source tree
func (p *paths) IsInSource(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}
	return within(p.sourceRoot, normalized), nil
}

// within reports whether path equals base or lies below it
func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
