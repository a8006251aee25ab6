package filesystem

import (
	"path/filepath"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/spf13/afero"
)

// BackupPrefix starts the name of every backup file
const BackupPrefix = "conf-sync-"

// Backup copies path into a new temporary file inside dir (the system temp
// dir when empty) and returns the backup's path. The copy is synced and
// closed before Backup returns.
func Backup(fsys afero.Fs, dir, path string) (string, error) {
	data, err := ReadFile(fsys, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot back up %s", path)
	}

	if dir != "" {
		if err := fsys.MkdirAll(dir, DefaultDirMode); err != nil {
			return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create backup directory %s", dir)
		}
	}

	f, err := afero.TempFile(fsys, dir, BackupPrefix+filepath.Base(path)+"-*")
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "failed to create backup file for %s", path)
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", errors.Wrapf(err, errors.ErrBackup, "failed to write backup %s", name).
			WithDetail("backup", name)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return "", errors.Wrapf(err, errors.ErrBackup, "failed to flush backup %s", name).
			WithDetail("backup", name)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "failed to close backup %s", name).
			WithDetail("backup", name)
	}

	return name, nil
}
