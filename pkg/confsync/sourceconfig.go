package confsync

import (
	"context"
	"slices"

	"github.com/quinox/confsync/pkg/diff"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/filesystem"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/quinox/confsync/pkg/sections"
	"github.com/quinox/confsync/pkg/vcs"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Default diff header prefixes
const (
	DefaultRepoLabel = "repo:"
	DefaultFsLabel   = "fs:"
)

// ModificationChecker reports whether a tracked file has uncommitted changes
type ModificationChecker interface {
	IsModified(ctx context.Context, path string) (bool, error)
}

// Options carries the collaborators shared by every SourceConfig of a run
type Options struct {
	Fs      afero.Fs
	Oracle  vcs.Oracle
	Tracker ModificationChecker
	Logger  *zerolog.Logger

	RepoLabel string
	FsLabel   string

	// DiffContext is the number of unchanged lines around each change.
	// Zero selects diff.DefaultContext; set NoDiffContext for none.
	DiffContext   int
	NoDiffContext bool

	// BackupDir receives copies of destinations before they are overwritten.
	// Empty means the system temp directory.
	BackupDir string
	DryRun    bool
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = filesystem.NewOS()
	}
	if o.RepoLabel == "" {
		o.RepoLabel = DefaultRepoLabel
	}
	if o.FsLabel == "" {
		o.FsLabel = DefaultFsLabel
	}
	switch {
	case o.NoDiffContext:
		o.DiffContext = 0
	case o.DiffContext <= 0:
		o.DiffContext = diff.DefaultContext
	}
	return o
}

// SourceConfig pairs a source file with its deployed destination. Its status
// is computed once, by New; build a new value to observe later changes.
type SourceConfig struct {
	sourcePath string
	destPath   string

	source *sections.Store
	dest   *sections.Store // nil when the destination does not exist

	destData []byte
	status   Status
	revision string
	classErr error
	opts     Options
	logger   zerolog.Logger
}

// New reads and parses both sides and classifies the pair. A missing
// destination is not an error. Parse failures on either side are.
func New(ctx context.Context, sourcePath, destPath string, opts Options) (*SourceConfig, error) {
	opts = opts.withDefaults()
	c := &SourceConfig{
		sourcePath: sourcePath,
		destPath:   destPath,
		opts:       opts,
		logger: logging.Component(opts.Logger, "confsync").With().
			Str("source", sourcePath).Str("destination", destPath).Logger(),
	}
	parser := sections.NewParser(opts.Logger)

	srcLines, err := filesystem.ReadLines(opts.Fs, sourcePath)
	if err != nil {
		return nil, err
	}
	if c.source, err = parser.Parse(srcLines); err != nil {
		return nil, errors.AddDetail(err, "path", sourcePath)
	}

	exists, err := filesystem.Exists(opts.Fs, destPath)
	if err != nil {
		return nil, err
	}
	if exists {
		if c.destData, err = filesystem.ReadFile(opts.Fs, destPath); err != nil {
			return nil, err
		}
		if c.dest, err = parser.Parse(filesystem.SplitLines(c.destData)); err != nil {
			return nil, errors.AddDetail(err, "path", destPath)
		}
	}

	c.status = c.classify(ctx)
	c.logger.Debug().Str("status", c.status.String()).Msg("Classified configuration")
	return c, nil
}

func (c *SourceConfig) classify(ctx context.Context) Status {
	if c.dest == nil {
		return StatusNew
	}
	if !c.HaveSameSections() {
		return StatusNewSourceSections
	}
	if slices.Equal(c.Generate(), c.dest.Lines()) {
		return StatusUpToDate
	}

	if c.opts.Oracle == nil {
		c.classErr = errors.New(errors.ErrHistoryLookup, "no history oracle configured")
		return StatusChanged
	}

	hash := vcs.BlobHash(c.destData)
	match, err := c.opts.Oracle.Lookup(ctx, hash)
	if err != nil {
		c.classErr = err
		c.logger.Warn().Err(err).Msg("History lookup failed, treating destination as changed")
		return StatusChanged
	}
	if match.Found {
		c.revision = match.Revision
		return StatusOldVersion
	}
	return StatusChanged
}

// SourcePath returns the path of the source-of-truth file
func (c *SourceConfig) SourcePath() string { return c.sourcePath }

// DestinationPath returns the path of the deployed file
func (c *SourceConfig) DestinationPath() string { return c.destPath }

// Status returns the classification computed at construction
func (c *SourceConfig) Status() Status { return c.status }

// Revision returns the commit holding the destination's content, when the
// oracle reported one for an old-version destination
func (c *SourceConfig) Revision() string { return c.revision }

// ClassifyErr returns the history lookup failure that forced a
// destination-has-changed classification, if any
func (c *SourceConfig) ClassifyErr() error { return c.classErr }

// Source returns the parsed source
func (c *SourceConfig) Source() *sections.Store { return c.source }

// Destination returns the parsed destination, or nil when it does not exist
func (c *SourceConfig) Destination() *sections.Store { return c.dest }

// HaveSameSections reports whether both sides have the same named sections
// under the same comment token
func (c *SourceConfig) HaveSameSections() bool {
	if c.dest == nil {
		return false
	}
	return sections.Compatible(c.source, c.dest)
}

// NrOfSameSections counts named sections present on both sides with equal content
func (c *SourceConfig) NrOfSameSections() int {
	same, _ := c.sectionCounts()
	return same
}

// NrOfDiffSections counts named sections that differ or exist on one side only
func (c *SourceConfig) NrOfDiffSections() int {
	_, different := c.sectionCounts()
	return different
}

func (c *SourceConfig) sectionCounts() (same, different int) {
	dest := c.dest
	if dest == nil {
		dest = sections.NewStore()
	}

	seen := make(map[string]bool)
	for _, key := range append(c.source.NamedKeys(), dest.NamedKeys()...) {
		if seen[key] {
			continue
		}
		seen[key] = true

		if c.source.Has(key) && dest.Has(key) && slices.Equal(c.source.LinesOf(key), dest.LinesOf(key)) {
			same++
		} else {
			different++
		}
	}
	return same, different
}

// Generate returns the content the destination should have
func (c *SourceConfig) Generate() []string {
	if c.dest == nil {
		return c.source.Lines()
	}
	return Merge(c.source, c.dest)
}

// Diff returns the unified diff from the current destination to the
// generated content. Headers carry the filesystem and repository labels.
func (c *SourceConfig) Diff() ([]string, error) {
	var current []string
	if c.dest != nil {
		current = c.dest.Lines()
	}
	return diff.Unified(current, c.Generate(), diff.Options{
		FromLabel: c.opts.FsLabel + c.destPath,
		ToLabel:   c.opts.RepoLabel + c.sourcePath,
		Context:   c.opts.DiffContext,
	})
}
