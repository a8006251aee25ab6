package confsync_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/quinox/confsync/pkg/testutil"
	"github.com/quinox/confsync/pkg/vcs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOracle implements vcs.Oracle for testing
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Lookup(ctx context.Context, hash string) (vcs.Match, error) {
	args := m.Called(hash)
	return args.Get(0).(vcs.Match), args.Error(1)
}

// MockTracker implements confsync.ModificationChecker for testing
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) IsModified(ctx context.Context, path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func lines(s ...string) []string {
	return s
}

func text(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	writeFileMode(t, fsys, path, content, 0644)
}

func writeFileMode(t *testing.T, fsys afero.Fs, path, content string, mode fs.FileMode) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), mode))
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	return testutil.ReadFs(t, fsys, path)
}
