package vcs

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultGitBinary is looked up on PATH when no binary is configured
const DefaultGitBinary = "git"

// GitOptions configure a Git backend
type GitOptions struct {
	Binary string
	Logger *zerolog.Logger
}

// Git implements Backend and ObjectLister by running the git executable
// inside a working tree
type Git struct {
	dir    string
	binary string
	logger zerolog.Logger
}

// NewGit creates a git backend rooted at dir (any directory inside the work tree)
func NewGit(dir string, opts GitOptions) *Git {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultGitBinary
	}
	return &Git{
		dir:    dir,
		binary: binary,
		logger: logging.Component(opts.Logger, "vcs.git"),
	}
}

// HashObject implements Backend
func (g *Git) HashObject(data []byte) string {
	return BlobHash(data)
}

// Revisions implements Backend
func (g *Git) Revisions(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "rev-list", "--all")
	if err != nil {
		return nil, err
	}
	return fields(out, 0), nil
}

// Blobs implements Backend
func (g *Git) Blobs(ctx context.Context, rev string) ([]string, error) {
	out, err := g.run(ctx, "ls-tree", "-r", "--full-tree", rev)
	if err != nil {
		return nil, err
	}

	// <mode> SP <type> SP <object> TAB <path>
	var blobs []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		meta, _, _ := strings.Cut(scanner.Text(), "\t")
		parts := strings.Fields(meta)
		if len(parts) == 3 && parts[1] == "blob" {
			blobs = append(blobs, parts[2])
		}
	}
	return blobs, nil
}

// Objects implements ObjectLister
func (g *Git) Objects(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "rev-list", "--all", "--objects")
	if err != nil {
		return nil, err
	}
	return fields(out, 0), nil
}

// IsModified implements Backend
func (g *Git) IsModified(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain", "--", path)
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// TopLevel returns the root of the work tree
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// run executes git in the work tree and returns stdout. Failures carry
// stderr and are coded ErrHistoryLookup.
func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", g.dir}, args...)
	logging.LogExec(g.logger, g.binary, full)

	cmd := exec.CommandContext(ctx, g.binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrHistoryLookup, "git %s failed: %s",
			args[0], strings.TrimSpace(stderr.String())).
			WithDetail("dir", g.dir).
			WithDetail("args", args)
	}
	return stdout.Bytes(), nil
}

// fields returns the n-th whitespace-separated field of every non-empty line
func fields(out []byte, n int) []string {
	var result []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		f := strings.Fields(scanner.Text())
		if len(f) > n {
			result = append(result, f[n])
		}
	}
	return result
}
