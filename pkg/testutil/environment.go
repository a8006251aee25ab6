package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// EnvPrefix is the prefix of the environment variables conf-sync reads.
// Environments clear them so that the developer's settings do not leak in.
const EnvPrefix = "CONF_SYNC_"

// Environment is an isolated conf-sync setup in a temporary directory: a
// source tree, a home and a root for deployed files, a backup directory and
// a user config file wiring them together.
type Environment struct {
	SourceRoot string
	HomeDir    string
	RootDir    string
	BackupDir  string
	ConfigPath string

	// Fs is the real filesystem, for code that takes an afero.Fs
	Fs afero.Fs

	t *testing.T
}

// NewEnvironment creates the directories and the user config. XDG state is
// redirected into the environment so that log files stay out of $HOME.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()
	ClearEnv(t, EnvPrefix)

	dir := t.TempDir()
	env := &Environment{
		SourceRoot: filepath.Join(dir, "src"),
		HomeDir:    filepath.Join(dir, "home"),
		RootDir:    filepath.Join(dir, "root"),
		BackupDir:  filepath.Join(dir, "backups"),
		ConfigPath: filepath.Join(dir, "config", "config.toml"),
		Fs:         afero.NewOsFs(),
		t:          t,
	}
	// Cleanups run last-in first-out: the reload sees the restored variable
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	xdg.Reload()

	for _, d := range []string{env.SourceRoot, env.HomeDir, env.RootDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	env.WriteConfig("")
	return env
}

// WriteConfig rewrites the user config. extra is appended after the
// [paths] table that points at the environment's directories.
func (env *Environment) WriteConfig(extra string) {
	env.t.Helper()
	content := "[paths]\n" +
		"home = " + quote(env.HomeDir) + "\n" +
		"root = " + quote(env.RootDir) + "\n" +
		"backups = " + quote(env.BackupDir) + "\n"
	if extra != "" {
		content += "\n" + extra
	}
	CreateFile(env.t, filepath.Dir(env.ConfigPath), filepath.Base(env.ConfigPath), content)
}

// WithSource creates tree below the source root
func (env *Environment) WithSource(tree FileTree) {
	env.t.Helper()
	WriteTree(env.t, env.Fs, env.SourceRoot, tree)
}

// WithHome creates tree below the home directory
func (env *Environment) WithHome(tree FileTree) {
	env.t.Helper()
	WriteTree(env.t, env.Fs, env.HomeDir, tree)
}

// SourcePath joins rel onto the source root
func (env *Environment) SourcePath(rel ...string) string {
	return filepath.Join(append([]string{env.SourceRoot}, rel...)...)
}

// HomePath joins rel onto the home directory
func (env *Environment) HomePath(rel ...string) string {
	return filepath.Join(append([]string{env.HomeDir}, rel...)...)
}

// Backups lists the files in the backup directory
func (env *Environment) Backups() []string {
	env.t.Helper()
	entries, err := os.ReadDir(env.BackupDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		env.t.Fatalf("Failed to list backups: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// quote renders s as a TOML literal string
func quote(s string) string {
	return "'" + s + "'"
}
