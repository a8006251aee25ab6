package testutil

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a throwaway git repository
type GitRepo struct {
	Dir string
	t   *testing.T
}

// RequireGit skips the test when no git binary is on PATH
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// InitGitRepo turns dir into a git repository, skipping the test when git
// is unavailable. An empty dir creates a fresh temporary directory.
func InitGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()
	RequireGit(t)
	if dir == "" {
		dir = t.TempDir()
	}
	repo := &GitRepo{Dir: dir, t: t}
	repo.Run("init", "-q")
	return repo
}

// Run runs git inside the repository with a fixed identity and signing
// disabled, and returns its trimmed output
func (r *GitRepo) Run(args ...string) string {
	r.t.Helper()
	full := append([]string{
		"-C", r.Dir,
		"-c", "user.name=conf-sync tests",
		"-c", "user.email=tests@example.invalid",
		"-c", "commit.gpgsign=false",
	}, args...)
	out, err := exec.Command("git", full...).CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Write creates or replaces a file inside the work tree and returns its path
func (r *GitRepo) Write(rel, content string) string {
	r.t.Helper()
	return CreateFile(r.t, r.Dir, filepath.FromSlash(rel), content)
}

// CommitAll stages everything and commits, returning the new revision
func (r *GitRepo) CommitAll(message string) string {
	r.t.Helper()
	r.Run("add", "-A")
	r.Run("commit", "-q", "-m", message)
	return r.Run("rev-parse", "HEAD")
}
