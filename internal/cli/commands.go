package cli

import (
	"context"
	"fmt"

	"github.com/quinox/confsync/internal/version"
	"github.com/quinox/confsync/pkg/config"
	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/output"
	"github.com/quinox/confsync/pkg/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// syntaxTopic is the help topic rendered by the syntax command
const syntaxTopic = "markers"

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status [paths...]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.status(cmd.Context(), args)
		},
	}
}

func newDiffCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "diff [paths...]",
		Short:   MsgDiffShort,
		Long:    MsgDiffLong,
		Example: MsgDiffExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.diff(cmd.Context(), args)
		},
	}
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "update [paths...]",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.update(cmd.Context(), args, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.list(cmd.Context())
		},
	}
}

func newShellCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "shell",
		Short:   MsgShellShort,
		Long:    MsgShellLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return newShell(a).run(cmd.Context())
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Template())
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.showConfig()
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newSyntaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "syntax",
		Short:   MsgSyntaxShort,
		Long:    MsgSyntaxLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := topics.New(newTopicRenderer())
			if err != nil {
				return fmt.Errorf(MsgErrTopic, err)
			}
			rendered, err := manager.Render(syntaxTopic)
			if err != nil {
				return fmt.Errorf(MsgErrTopic, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func newTopicRenderer() topics.Renderer {
	if stdoutIsTerminal() {
		return topics.NewGlamourRenderer()
	}
	return &topics.PlainRenderer{}
}

func (a *app) status(ctx context.Context, filter []string) error {
	configs, failures, err := a.load(ctx, filter)
	if err != nil {
		return err
	}
	unmanaged := a.unmanaged(filter, configs)
	if len(configs) == 0 && len(failures) == 0 && len(unmanaged) == 0 {
		return a.renderer.RenderMessage(MsgNoFilesFound)
	}

	report := &output.Report{Command: "status", Errors: failures, Unmanaged: unmanaged}
	for _, c := range configs {
		fr, err := output.NewFileReport(c, false)
		if err != nil {
			return fmt.Errorf(MsgErrStatus, err)
		}
		report.Files = append(report.Files, fr)
	}
	if err := a.renderer.RenderReport(report); err != nil {
		return err
	}
	return loadFailures(failures)
}

func (a *app) diff(ctx context.Context, filter []string) error {
	configs, failures, err := a.load(ctx, filter)
	if err != nil {
		return err
	}

	pending := pendingConfigs(configs)
	if len(pending) == 0 && len(failures) == 0 {
		return a.renderer.RenderMessage(MsgNothingToUpdate)
	}

	report := &output.Report{Command: "diff", Errors: failures}
	for _, c := range pending {
		fr, err := output.NewFileReport(c, true)
		if err != nil {
			return fmt.Errorf(MsgErrDiff, err)
		}
		report.Files = append(report.Files, fr)
	}
	if err := a.renderer.RenderReport(report); err != nil {
		return err
	}
	return loadFailures(failures)
}

func (a *app) update(ctx context.Context, filter []string, yes bool) error {
	configs, failures, err := a.load(ctx, filter)
	if err != nil {
		return err
	}

	pending := pendingConfigs(configs)
	if len(pending) == 0 {
		if err := a.renderer.RenderMessage(MsgNothingToUpdate); err != nil {
			return err
		}
		return loadFailures(failures)
	}

	if !yes && !a.opts.dryRun {
		preview := &output.Report{Command: "status"}
		for _, c := range pending {
			fr, err := output.NewFileReport(c, false)
			if err != nil {
				return fmt.Errorf(MsgErrUpdate, err)
			}
			preview.Files = append(preview.Files, fr)
		}
		if err := a.renderer.RenderReport(preview); err != nil {
			return err
		}

		ok, err := a.confirm(fmt.Sprintf(MsgConfirmFormat, len(pending)))
		if err != nil {
			return fmt.Errorf(MsgErrConfirm, err)
		}
		if !ok {
			return a.renderer.RenderMessage(MsgUpdateAborted)
		}
	}

	report := &output.Report{Command: "update", Errors: failures}
	failed := 0
	for _, c := range pending {
		result, err := c.Update(ctx)
		if err != nil {
			failed++
			a.logger.Error().Err(err).Str("destination", c.DestinationPath()).Msg("Update failed")
		}
		report.Updates = append(report.Updates, output.NewUpdateReport(c, result, err))
	}
	if err := a.renderer.RenderReport(report); err != nil {
		return err
	}
	if a.opts.dryRun {
		if err := a.renderer.RenderMessage(MsgDryRunNotice); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf(MsgErrUpdateFailed, failed)
	}
	return loadFailures(failures)
}

func (a *app) list(ctx context.Context) error {
	configs, failures, err := a.load(ctx, nil)
	if err != nil {
		return err
	}
	if len(configs) == 0 && len(failures) == 0 {
		return a.renderer.RenderMessage(MsgNoFilesFound)
	}

	report := &output.Report{Command: "list", Errors: failures}
	for _, c := range configs {
		report.Mappings = append(report.Mappings, output.MappingReport{
			Source:      c.SourcePath(),
			Destination: c.DestinationPath(),
		})
	}
	if err := a.renderer.RenderReport(report); err != nil {
		return err
	}
	return loadFailures(failures)
}

func (a *app) showConfig() error {
	if len(a.cfg.Files) == 0 {
		if _, err := fmt.Fprintf(a.out, MsgConfigNoFile, a.paths.ConfigFilePath()); err != nil {
			return err
		}
	}
	for _, f := range a.cfg.Files {
		if _, err := fmt.Fprintf(a.out, MsgConfigFileHeader, f); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(a.out, MsgConfigLogFile, a.paths.LogFilePath()); err != nil {
		return err
	}
	content, err := config.Generate(a.cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.out, content)
	return err
}

func pendingConfigs(configs []*confsync.SourceConfig) []*confsync.SourceConfig {
	var pending []*confsync.SourceConfig
	for _, c := range configs {
		if c.Status().NeedsUpdate() {
			pending = append(pending, c)
		}
	}
	return pending
}

func loadFailures(failures []string) error {
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf(MsgErrLoadFailures, len(failures))
}
