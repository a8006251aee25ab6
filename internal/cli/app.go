package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/quinox/confsync/pkg/config"
	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/filesystem"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/quinox/confsync/pkg/output"
	"github.com/quinox/confsync/pkg/paths"
	"github.com/quinox/confsync/pkg/style"
	"github.com/quinox/confsync/pkg/vcs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions hold the persistent flags
type globalOptions struct {
	verbosity  int
	source     string
	format     string
	configPath string
	dryRun     bool
}

// app is the state a command runs against. The shell keeps one for its
// whole session; every other command builds its own.
type app struct {
	opts     *globalOptions
	cfg      *config.Config
	paths    paths.Paths
	renderer output.Renderer
	in       io.Reader
	out      io.Writer
	reader   *bufio.Reader
	logger   zerolog.Logger
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	overrides := map[string]interface{}{}
	if opts.source != "" {
		source, err := filepath.Abs(paths.ExpandHome(opts.source))
		if err != nil {
			return nil, fmt.Errorf(MsgErrLoadConfig, err)
		}
		overrides["paths.source"] = source
	}
	if opts.format != "" {
		overrides["output.format"] = opts.format
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath: opts.configPath,
		Overrides:      overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	p, err := paths.New(cfg.Paths.Source)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	if cfg.SourceFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning+"\n", p.SourceRoot())
	}

	if cfg.Output.Styles != "" {
		if err := style.LoadStylesFile(cfg.Output.Styles); err != nil {
			return nil, fmt.Errorf(MsgErrStyles, err)
		}
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}
	renderer, err := output.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}

	a := &app{
		opts:     opts,
		cfg:      cfg,
		paths:    p,
		renderer: renderer,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		logger:   logging.GetLogger("cli"),
	}
	a.logger.Debug().
		Str("source", cfg.Paths.Source).
		Strs("files", cfg.Files).
		Bool("dry_run", opts.dryRun).
		Msg("Configuration loaded")
	return a, nil
}

// loadOptions wires the configuration into the loader. A fresh oracle is
// built on every call so that commits made meanwhile are seen.
func (a *app) loadOptions(filter []string) (confsync.LoadOptions, error) {
	git := vcs.NewGit(a.cfg.Paths.Source, vcs.GitOptions{Binary: a.cfg.History.Git})
	oracle, err := vcs.NewOracle(a.cfg.History.Strategy, git, nil)
	if err != nil {
		return confsync.LoadOptions{}, err
	}

	return confsync.LoadOptions{
		Options: confsync.Options{
			Fs:          filesystem.NewOS(),
			Oracle:      oracle,
			Tracker:     git,
			RepoLabel:   a.cfg.Diff.Repo,
			FsLabel:     a.cfg.Diff.Fs,
			DiffContext:   a.cfg.Diff.Context,
			NoDiffContext: a.cfg.Diff.Context == 0,
			BackupDir:   a.cfg.Paths.Backups,
			DryRun:      a.opts.dryRun,
		},
		SourceRoot: a.cfg.Paths.Source,
		Mapper:     paths.NewMapper(a.cfg.Paths.Home, a.cfg.Paths.Root),
		Ignore:     a.cfg.Paths.Ignore,
		Filter:     a.expandFilter(filter),
	}, nil
}

// load returns the configs that loaded cleanly and the messages of those
// that did not. The error is only set when the tree could not be read at all.
func (a *app) load(ctx context.Context, filter []string) ([]*confsync.SourceConfig, []string, error) {
	opts, err := a.loadOptions(filter)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadSources, err)
	}

	configs, err := confsync.Load(ctx, opts)
	if err == nil {
		return configs, nil, nil
	}
	if se, ok := err.(*errors.SyncError); ok && se.Code == errors.ErrConfigLoad {
		return nil, nil, fmt.Errorf(MsgErrLoadSources, err)
	}
	return configs, errorMessages(err), nil
}

// confirm asks a yes/no question, interactively on a terminal and as a
// plain line otherwise
func (a *app) confirm(prompt string) (bool, error) {
	if f, ok := a.in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return pterm.DefaultInteractiveConfirm.WithDefaultText(prompt).Show()
	}

	if _, err := fmt.Fprintf(a.out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := a.readLine()
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (a *app) readLine() (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.in)
	}
	return a.reader.ReadString('\n')
}

// expandFilter adds the normalized form of every relative argument, so that
// both source-relative paths and paths relative to the working directory match
func (a *app) expandFilter(args []string) []string {
	filter := make([]string, 0, len(args)*2)
	for _, arg := range args {
		arg = paths.ExpandHome(arg)
		filter = append(filter, arg)
		if filepath.IsAbs(arg) {
			continue
		}
		abs, err := a.paths.NormalizePath(arg)
		if err != nil {
			continue
		}
		filter = append(filter, abs)
	}
	return filter
}

// unmanaged reports the absolute destination arguments that no loaded file
// deploys, together with the source path that would
func (a *app) unmanaged(args []string, configs []*confsync.SourceConfig) []output.MappingReport {
	mapper := paths.NewMapper(a.cfg.Paths.Home, a.cfg.Paths.Root)

	var missing []output.MappingReport
	for _, arg := range args {
		arg = paths.ExpandHome(arg)
		if !filepath.IsAbs(arg) {
			continue
		}
		dest, err := a.paths.NormalizePath(arg)
		if err != nil {
			continue
		}
		if inSource, _ := a.paths.IsInSource(dest); inSource || deploysTo(configs, dest) {
			continue
		}
		rel, err := mapper.Relative(dest)
		if err != nil {
			a.logger.Debug().Err(err).Str("path", dest).Msg("Argument is outside the mapped roots")
			continue
		}
		missing = append(missing, output.MappingReport{
			Source:      filepath.Join(a.paths.SourceRoot(), filepath.FromSlash(rel)),
			Destination: dest,
		})
	}
	return missing
}

func deploysTo(configs []*confsync.SourceConfig, dest string) bool {
	prefix := dest + string(filepath.Separator)
	for _, c := range configs {
		if d := c.DestinationPath(); d == dest || strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

// errorMessages flattens a joined error into one message per cause
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, errorMessages(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
