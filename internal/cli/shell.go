package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// shellCommand is one of the commands the interactive shell understands
type shellCommand int

const (
	shellStatus shellCommand = iota
	shellDiff
	shellUpdate
	shellList
	shellConfig
	shellHelp
	shellQuit
)

type shellEntry struct {
	command shellCommand
	names   []string
	usage   string
	help    string
}

// shellCommands lists every shell command in help order. The first name is
// the canonical one.
var shellCommands = []shellEntry{
	{shellStatus, []string{"status", "st"}, "status [paths...]", "show how files relate to the source tree"},
	{shellDiff, []string{"diff", "d"}, "diff [paths...]", "show what update would change"},
	{shellUpdate, []string{"update", "up"}, "update [-y] [paths...]", "apply pending updates"},
	{shellList, []string{"list", "ls"}, "list", "list source files and their destinations"},
	{shellConfig, []string{"config"}, "config", "print the effective configuration"},
	{shellHelp, []string{"help", "?"}, "help", "show this help"},
	{shellQuit, []string{"quit", "exit", "q"}, "quit", "leave the shell"},
}

func (c shellCommand) String() string {
	for _, e := range shellCommands {
		if e.command == c {
			return e.names[0]
		}
	}
	return "unknown"
}

func parseShellCommand(word string) (shellCommand, bool) {
	word = strings.ToLower(word)
	for _, e := range shellCommands {
		for _, name := range e.names {
			if name == word {
				return e.command, true
			}
		}
	}
	return 0, false
}

type shellAction func(ctx context.Context, args []string) error

var errShellQuit = stderrors.New("quit")

type shell struct {
	app     *app
	actions map[shellCommand]shellAction
}

func newShell(a *app) *shell {
	s := &shell{app: a}
	s.actions = map[shellCommand]shellAction{
		shellStatus: a.status,
		shellDiff:   a.diff,
		shellUpdate: func(ctx context.Context, args []string) error {
			yes, rest := splitYes(args)
			return a.update(ctx, rest, yes)
		},
		shellList: func(ctx context.Context, args []string) error {
			return a.list(ctx)
		},
		shellConfig: func(ctx context.Context, args []string) error {
			return a.showConfig()
		},
		shellHelp: func(ctx context.Context, args []string) error {
			return s.help()
		},
		shellQuit: func(ctx context.Context, args []string) error {
			return errShellQuit
		},
	}
	return s
}

// run reads commands until quit, end of input or cancellation. Command
// errors are reported and the session goes on.
func (s *shell) run(ctx context.Context) error {
	out := s.app.out
	fmt.Fprintf(out, MsgShellWelcome, s.app.cfg.Paths.Source)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, MsgShellPrompt)

		line, readErr := s.app.readLine()
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		if fields := strings.Fields(line); len(fields) > 0 {
			err := s.execute(ctx, fields)
			if err == errShellQuit {
				return nil
			}
			if err != nil {
				s.app.logger.Debug().Err(err).Str("line", line).Msg("Shell command failed")
				_ = s.app.renderer.RenderError(err)
			}
		}

		if readErr == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func (s *shell) execute(ctx context.Context, fields []string) error {
	cmd, ok := parseShellCommand(fields[0])
	if !ok {
		return fmt.Errorf(MsgShellUnknown, fields[0])
	}
	s.app.logger.Debug().Stringer("command", cmd).Strs("args", fields[1:]).Msg("Shell command")
	return s.actions[cmd](ctx, fields[1:])
}

func (s *shell) help() error {
	width := 0
	for _, e := range shellCommands {
		width = max(width, len(e.usage))
	}
	for _, e := range shellCommands {
		if _, err := fmt.Fprintf(s.app.out, MsgShellHelp, width, e.usage, e.help); err != nil {
			return err
		}
	}
	return nil
}

func splitYes(args []string) (bool, []string) {
	yes := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-y" || arg == "--yes" {
			yes = true
			continue
		}
		rest = append(rest, arg)
	}
	return yes, rest
}
