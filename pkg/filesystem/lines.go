package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/spf13/afero"
)

// Default permissions for files and directories created from scratch
const (
	DefaultFileMode fs.FileMode = 0644
	DefaultDirMode  fs.FileMode = 0755
)

// NewOS returns the operating system filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// SplitLines splits file content into lines without their trailing newline.
// A final newline does not produce an empty last line; carriage returns are
// kept as part of the line.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines: every line is newline-terminated
func JoinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Exists reports whether path exists
func Exists(fsys afero.Fs, path string) (bool, error) {
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", path).
			WithDetail("path", path)
	}
	return ok, nil
}

// ReadFile reads the raw bytes of path
func ReadFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		code := errors.ErrFileRead
		if os.IsNotExist(err) {
			code = errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, code, "failed to read %s", path).
			WithDetail("path", path)
	}
	return data, nil
}

// ReadLines reads path and splits it into lines
func ReadLines(fsys afero.Fs, path string) ([]string, error) {
	data, err := ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return SplitLines(data), nil
}

// Mode returns the permission bits of path, or fallback when it cannot be stat'ed
func Mode(fsys afero.Fs, path string, fallback fs.FileMode) fs.FileMode {
	info, err := fsys.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}

// WriteFile writes data to path, creating parent directories as needed
func WriteFile(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, DefaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir).
			WithDetail("path", dir)
	}
	if err := afero.WriteFile(fsys, path, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("path", path)
	}
	return nil
}

// WriteLines writes newline-terminated lines to path
func WriteLines(fsys afero.Fs, path string, lines []string, perm fs.FileMode) error {
	return WriteFile(fsys, path, JoinLines(lines), perm)
}
