package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"portfolio-terminal/internal/server"
)

func newConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the portfolio in this terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setup, err := buildSetup(cfg)
			if err != nil {
				return err
			}
			opts, err := themeOptions(cfg)
			if err != nil {
				return err
			}

			session := server.ResolveSession(os.Getenv("TERM"), 0, 0, opts, lipgloss.DefaultRenderer())
			program := tea.NewProgram(setup.NewModel(session),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = program.Run()
			return err
		},
	}
}
