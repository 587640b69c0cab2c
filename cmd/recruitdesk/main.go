package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/recruitdesk/internal/tui"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "recruitdesk",
		Short:         "Browse accounts, positions and candidates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := tui.New(cmd.Context(), e.cfg, e.tuiServices(), e.logger)
			defer app.Close()
			if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
	e.addFlags(root)
	root.AddCommand(
		newListCmd(e),
		newShowCmd(e),
		newSeedCmd(e),
		newResetCmd(e),
	)
	return root
}
