// Package topics provides the help topics shipped with conf-sync and hooks
// them into cobra's help command.
package topics

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed docs/*.md
var docs embed.FS

// Topic is one help document
type Topic struct {
	Name    string
	Content string
}

// Manager holds the available topics
type Manager struct {
	topics   map[string]*Topic
	renderer Renderer
}

// New loads the embedded topics
func New(renderer Renderer) (*Manager, error) {
	sub, err := fs.Sub(docs, "docs")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub, renderer)
}

// NewFromFS loads every .md file in fsys as a topic named after the file
func NewFromFS(fsys fs.FS, renderer Renderer) (*Manager, error) {
	if renderer == nil {
		renderer = &PlainRenderer{}
	}
	m := &Manager{topics: make(map[string]*Topic), renderer: renderer}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ".md")
		m.topics[name] = &Topic{Name: name, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

// Get retrieves a topic by name
func (m *Manager) Get(name string) (*Topic, bool) {
	t, ok := m.topics[strings.TrimLeft(name, "-")]
	return t, ok
}

// List returns all topic names sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns a topic formatted by the manager's renderer
func (m *Manager) Render(name string) (string, error) {
	t, ok := m.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown help topic %q", name)
	}
	return m.renderer.Render(t.Content), nil
}

// Install replaces rootCmd's help command with one that also knows topics
func (m *Manager) Install(rootCmd *cobra.Command) {
	originalHelp := rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				originalHelp(rootCmd, args)
				return
			}

			if args[0] == "topics" {
				m.writeList(cmd.OutOrStdout(), rootCmd.Name())
				return
			}

			if rendered, err := m.Render(args[0]); err == nil {
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return
			}

			target, _, err := rootCmd.Find(args)
			if err != nil || target == nil {
				originalHelp(rootCmd, args)
				return
			}
			originalHelp(target, args)
		},
	}

	rootCmd.SetHelpCommand(helpCmd)
}

func (m *Manager) writeList(w io.Writer, app string) {
	names := m.List()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}
	fmt.Fprintln(w, "Available help topics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}
