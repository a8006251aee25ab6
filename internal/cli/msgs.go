package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Synchronize managed sections of configuration files"
	MsgStatusShort     = "Show how deployed files relate to the source tree"
	MsgDiffShort       = "Show what update would change"
	MsgUpdateShort     = "Bring deployed files in line with the source tree"
	MsgListShort       = "List source files and where they are deployed"
	MsgListLong        = "List shows every file of the source tree together with the destination it maps to."
	MsgConfigShort     = "Print the effective configuration"
	MsgSyntaxShort     = "Show the section marker syntax"
	MsgSyntaxLong      = "Syntax renders the reference for the markers that split a file into managed sections."
	MsgShellShort      = "Start an interactive session"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice     = "DRY RUN MODE - No changes were made"
	MsgNothingToUpdate  = "Everything is up to date."
	MsgNoFilesFound     = "No files found in the source tree."
	MsgUpdateAborted    = "Update cancelled."
	MsgConfirmFormat    = "Update %d file(s)?"
	MsgConfigFileHeader = "# loaded from %s\n"
	MsgConfigNoFile     = "# no configuration file found, defaults in use (user file: %s)\n"
	MsgConfigLogFile    = "# log file: %s\n"
	MsgVersionFormat    = "conf-sync version %s\n"
	MsgCommitFormat     = "  commit: %s\n"
	MsgBuiltFormat      = "  built:  %s\n"

	// Shell messages
	MsgShellWelcome = "conf-sync shell on %s. Type 'help' for commands.\n"
	MsgShellPrompt  = "conf-sync> "
	MsgShellUnknown = "unknown command %q, type 'help' for commands"
	MsgShellHelp    = "  %-*s  %s\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadSources  = "failed to load source tree: %w"
	MsgErrStatus       = "failed to report status: %w"
	MsgErrDiff         = "failed to compute diff: %w"
	MsgErrUpdate       = "failed to update files: %w"
	MsgErrUpdateFailed = "%d update(s) failed"
	MsgErrLoadFailures = "%d file(s) could not be loaded"
	MsgErrFormat       = "invalid output format: %w"
	MsgErrConfirm      = "failed to read confirmation: %w"
	MsgErrTopic        = "failed to render help topic: %w"
	MsgErrStyles       = "failed to load styles: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without writing anything"
	MsgFlagSource   = "Source tree root (default: git toplevel of the working directory)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagConfig   = "User configuration file (default: $XDG_CONFIG_HOME/conf-sync/config.toml)"
	MsgFlagYes      = "Apply updates without asking"
	MsgFlagTemplate = "Print a commented configuration template instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/diff-long.txt
	msgDiffLongRaw string
	MsgDiffLong    = strings.TrimSpace(msgDiffLongRaw)

	//go:embed msgs/diff-example.txt
	msgDiffExampleRaw string
	MsgDiffExample    = strings.TrimRight(msgDiffExampleRaw, "\n")

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/shell-long.txt
	msgShellLongRaw string
	MsgShellLong    = strings.TrimSpace(msgShellLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
