package confsync

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/quinox/confsync/pkg/paths"
	"github.com/spf13/afero"
)

// DefaultIgnore lists source-relative patterns the loader skips
var DefaultIgnore = []string{".git", "*.swp", paths.SourceConfigFile, "/README*", "/LICENSE*"}

// LoadOptions configure Load
type LoadOptions struct {
	Options

	// SourceRoot is the directory walked for configuration files
	SourceRoot string
	Mapper     paths.Mapper

	// Ignore holds path.Match patterns checked against the source-relative
	// path and against the base name. A leading slash anchors a pattern at
	// the source root.
	Ignore []string

	// Filter restricts loading to files whose source path, source-relative
	// path or destination equals or lies below one of the entries
	Filter []string
}

// Load builds a SourceConfig for every file below the source root, in
// lexical order. Dot-files and dot-directories belong to the repository
// itself; deployed dotfiles are spelled with the "__." prefix. A file that fails to load is left out and its error joined
// into the returned error; the remaining configs are still returned.
func Load(ctx context.Context, opts LoadOptions) ([]*SourceConfig, error) {
	opts.Options = opts.Options.withDefaults()
	logger := logging.Component(opts.Logger, "loader")
	done := logging.Timed(logger, "load "+opts.SourceRoot)
	defer done()

	var (
		configs []*SourceConfig
		errs    []error
	)

	walkErr := afero.Walk(opts.Fs, opts.SourceRoot, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == opts.SourceRoot {
			return nil
		}

		rel, err := filepath.Rel(opts.SourceRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		hidden := strings.HasPrefix(info.Name(), ".")
		if info.IsDir() {
			if hidden || ignored(opts.Ignore, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !info.Mode().IsRegular() || ignored(opts.Ignore, rel) {
			logger.Trace().Str("path", rel).Msg("Skipping file")
			return nil
		}

		dest, err := opts.Mapper.Destination(rel)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !selected(opts.Filter, p, rel, dest) {
			return nil
		}

		cfg, err := New(ctx, p, dest, opts.Options)
		if err != nil {
			logger.Error().Err(err).Str("path", p).Msg("Failed to load configuration")
			errs = append(errs, err)
			return nil
		}
		configs = append(configs, cfg)
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, errors.ErrConfigLoad, "failed to walk %s", opts.SourceRoot).
			WithDetail("path", opts.SourceRoot)
	}

	logger.Debug().Int("configs", len(configs)).Int("errors", len(errs)).Msg("Loaded source tree")
	return configs, stderrors.Join(errs...)
}

func ignored(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
			if match, _ := path.Match(anchored, rel); match {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func selected(filter []string, sourcePath, rel, dest string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		f = filepath.Clean(f)
		if under(f, sourcePath) || under(f, dest) || under(f, filepath.FromSlash(rel)) {
			return true
		}
	}
	return false
}

// under reports whether p equals base or lies below it
func under(base, p string) bool {
	return p == base || strings.HasPrefix(p, strings.TrimSuffix(base, string(filepath.Separator))+string(filepath.Separator))
}
