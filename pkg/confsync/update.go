package confsync

import (
	"context"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/filesystem"
	"github.com/quinox/confsync/pkg/logging"
)

// Refusal and no-op reasons reported through UpdateResult
const (
	ReasonUpToDate          = "already up to date"
	ReasonUncommittedSource = "source has uncommitted changes"
	ReasonUnknownSource     = "cannot tell whether the source has uncommitted changes"
	ReasonDryRun            = "dry run"
)

// UpdateResult reports what Update did. A refusal is not an error: Updated is
// false and Reason says why.
type UpdateResult struct {
	Updated     bool
	WrittenPath string
	BackupPath  string
	Reason      string
	DryRun      bool
}

// Update applies the transition for the pair's status. The SourceConfig is
// not refreshed afterwards.
func (c *SourceConfig) Update(ctx context.Context) (UpdateResult, error) {
	done := logging.Timed(c.logger, "update")
	defer done()

	switch c.status {
	case StatusUpToDate:
		return UpdateResult{Reason: ReasonUpToDate}, nil
	case StatusNew:
		return c.writeDestination(c.source.Lines(), false)
	case StatusNewSourceSections, StatusOldVersion:
		return c.writeDestination(c.Generate(), true)
	case StatusChanged:
		return c.pushBack(ctx)
	default:
		return UpdateResult{}, errors.Newf(errors.ErrInternal, "unhandled status %q", c.status)
	}
}

// writeDestination replaces the destination with lines, taking a backup of
// the existing file first when backup is set
func (c *SourceConfig) writeDestination(lines []string, backup bool) (UpdateResult, error) {
	result := UpdateResult{WrittenPath: c.destPath}
	if c.opts.DryRun {
		result.DryRun = true
		result.Reason = ReasonDryRun
		return result, nil
	}

	mode := filesystem.Mode(c.opts.Fs, c.sourcePath, filesystem.DefaultFileMode)
	if backup {
		mode = filesystem.Mode(c.opts.Fs, c.destPath, mode)

		path, err := filesystem.Backup(c.opts.Fs, c.opts.BackupDir, c.destPath)
		if err != nil {
			return UpdateResult{}, err
		}
		result.BackupPath = path
		c.logger.Info().Str("backup", path).Msg("Backed up destination")
	}

	if err := filesystem.WriteLines(c.opts.Fs, c.destPath, lines, mode); err != nil {
		return UpdateResult{}, err
	}

	result.Updated = true
	c.logger.Info().Str("status", c.status.String()).Msg("Wrote destination")
	return result, nil
}

// pushBack copies the destination over the source, unless the source has
// work that is not committed yet
func (c *SourceConfig) pushBack(ctx context.Context) (UpdateResult, error) {
	if c.opts.Tracker == nil {
		c.logger.Warn().Msg("No modification tracker configured, refusing to overwrite source")
		return UpdateResult{Reason: ReasonUnknownSource}, nil
	}

	modified, err := c.opts.Tracker.IsModified(ctx, c.sourcePath)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Could not check source for uncommitted changes, refusing to overwrite it")
		return UpdateResult{Reason: ReasonUnknownSource}, nil
	}
	if modified {
		c.logger.Warn().Msg("Source has uncommitted changes, refusing to overwrite it")
		return UpdateResult{Reason: ReasonUncommittedSource}, nil
	}

	result := UpdateResult{WrittenPath: c.sourcePath}
	if c.opts.DryRun {
		result.DryRun = true
		result.Reason = ReasonDryRun
		return result, nil
	}

	mode := filesystem.Mode(c.opts.Fs, c.sourcePath, filesystem.DefaultFileMode)
	if err := filesystem.WriteFile(c.opts.Fs, c.sourcePath, c.destData, mode); err != nil {
		return UpdateResult{}, err
	}

	result.Updated = true
	c.logger.Info().Msg("Copied destination back to source")
	return result, nil
}
