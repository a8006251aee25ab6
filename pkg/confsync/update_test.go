package confsync_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/vcs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const backupDir = "/var/backups/conf-sync"

func updateOptions(fsys afero.Fs, oracle vcs.Oracle, tracker confsync.ModificationChecker) confsync.Options {
	return confsync.Options{
		Fs:          fsys,
		Oracle:      oracle,
		Tracker:     tracker,
		DiffContext: 3,
		BackupDir:   backupDir,
	}
}

func load(t *testing.T, opts confsync.Options) *confsync.SourceConfig {
	t.Helper()
	cfg, err := confsync.New(context.Background(), srcPath, destPath, opts)
	require.NoError(t, err)
	return cfg
}

func TestUpdate_New(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFileMode(t, fsys, srcPath, improvedSource, 0600)

	cfg := load(t, updateOptions(fsys, nil, nil))
	require.Equal(t, confsync.StatusNew, cfg.Status())

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, destPath, result.WrittenPath)
	assert.Empty(t, result.BackupPath)

	assert.Equal(t, improvedSource, readFile(t, fsys, destPath))
	info, err := fsys.Stat(destPath)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	again := load(t, updateOptions(fsys, nil, nil))
	assert.Equal(t, confsync.StatusUpToDate, again.Status())
}

func TestUpdate_NewCreatesParentDirectories(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, srcPath, improvedSource)

	cfg, err := confsync.New(context.Background(), srcPath, "/opt/app/conf.d/app.conf", updateOptions(fsys, nil, nil))
	require.NoError(t, err)

	_, err = cfg.Update(context.Background())
	require.NoError(t, err)

	ok, err := afero.DirExists(fsys, "/opt/app/conf.d")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdate_OldVersion(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, srcPath, improvedSource)
	writeFileMode(t, fsys, destPath, outdatedDest, 0640)

	oracle := new(MockOracle)
	oracle.On("Lookup", vcs.BlobHash([]byte(outdatedDest))).Return(vcs.Match{Found: true}, nil)

	cfg := load(t, updateOptions(fsys, oracle, nil))
	require.Equal(t, confsync.StatusOldVersion, cfg.Status())
	merged := cfg.Generate()

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, destPath, result.WrittenPath)

	require.NotEmpty(t, result.BackupPath)
	assert.Equal(t, backupDir, filepath.Dir(result.BackupPath))
	assert.True(t, strings.HasPrefix(filepath.Base(result.BackupPath), "conf-sync-app.conf-"))
	assert.Equal(t, outdatedDest, readFile(t, fsys, result.BackupPath))

	assert.Equal(t, text(merged...), readFile(t, fsys, destPath))
	info, err := fsys.Stat(destPath)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0640), info.Mode().Perm())

	// Updating again is a no-op
	again := load(t, updateOptions(fsys, oracle, nil))
	assert.Equal(t, confsync.StatusUpToDate, again.Status())
	d, err := again.Diff()
	require.NoError(t, err)
	assert.Empty(t, d)

	result, err = again.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, confsync.ReasonUpToDate, result.Reason)
}

func TestUpdate_NewSourceSectionsReplacesWithBackup(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dest := text("# conf-sync managed", "# conf-sync begin-section=other", "x = 1")
	writeFile(t, fsys, srcPath, improvedSource)
	writeFile(t, fsys, destPath, dest)

	cfg := load(t, updateOptions(fsys, nil, nil))
	require.Equal(t, confsync.StatusNewSourceSections, cfg.Status())

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, improvedSource, readFile(t, fsys, destPath))
	assert.Equal(t, dest, readFile(t, fsys, result.BackupPath))
}

func TestUpdate_ChangedPushesBack(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, srcPath, improvedSource)
	writeFile(t, fsys, destPath, outdatedDest)

	oracle := new(MockOracle)
	oracle.On("Lookup", mock.Anything).Return(vcs.Match{}, nil)
	tracker := new(MockTracker)
	tracker.On("IsModified", srcPath).Return(false, nil)

	cfg := load(t, updateOptions(fsys, oracle, tracker))
	require.Equal(t, confsync.StatusChanged, cfg.Status())

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, srcPath, result.WrittenPath)
	assert.Empty(t, result.BackupPath)

	assert.Equal(t, outdatedDest, readFile(t, fsys, srcPath))
	assert.Equal(t, outdatedDest, readFile(t, fsys, destPath))
	tracker.AssertExpectations(t)
}

func TestUpdate_ChangedRefusals(t *testing.T) {
	tests := []struct {
		name    string
		tracker func() confsync.ModificationChecker
		reason  string
	}{
		{
			name: "uncommitted source",
			tracker: func() confsync.ModificationChecker {
				m := new(MockTracker)
				m.On("IsModified", srcPath).Return(true, nil)
				return m
			},
			reason: confsync.ReasonUncommittedSource,
		},
		{
			name: "status check fails",
			tracker: func() confsync.ModificationChecker {
				m := new(MockTracker)
				m.On("IsModified", srcPath).Return(false, errors.New(errors.ErrHistoryLookup, "git failed"))
				return m
			},
			reason: confsync.ReasonUnknownSource,
		},
		{
			name:    "no tracker",
			tracker: func() confsync.ModificationChecker { return nil },
			reason:  confsync.ReasonUnknownSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, srcPath, improvedSource)
			writeFile(t, fsys, destPath, outdatedDest)

			oracle := new(MockOracle)
			oracle.On("Lookup", mock.Anything).Return(vcs.Match{}, nil)

			cfg := load(t, updateOptions(fsys, oracle, tt.tracker()))
			result, err := cfg.Update(context.Background())
			require.NoError(t, err)

			assert.False(t, result.Updated)
			assert.Empty(t, result.WrittenPath)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, improvedSource, readFile(t, fsys, srcPath))
			assert.Equal(t, outdatedDest, readFile(t, fsys, destPath))
		})
	}
}

func TestUpdate_DryRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, srcPath, improvedSource)
	writeFile(t, fsys, destPath, outdatedDest)

	oracle := new(MockOracle)
	oracle.On("Lookup", mock.Anything).Return(vcs.Match{Found: true}, nil)

	opts := updateOptions(fsys, oracle, nil)
	opts.DryRun = true
	cfg := load(t, opts)

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.True(t, result.DryRun)
	assert.Equal(t, destPath, result.WrittenPath)
	assert.Equal(t, outdatedDest, readFile(t, fsys, destPath))

	exists, err := afero.DirExists(fsys, backupDir)
	require.NoError(t, err)
	assert.False(t, exists, "no backup in dry run")
}

func TestUpdate_WriteFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFile(t, base, srcPath, improvedSource)

	cfg := load(t, updateOptions(afero.NewReadOnlyFs(base), nil, nil))
	_, err := cfg.Update(context.Background())
	require.Error(t, err)
	code := errors.GetErrorCode(err)
	assert.Contains(t, []errors.ErrorCode{errors.ErrDirCreate, errors.ErrFileWrite}, code)
}
