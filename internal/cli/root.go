// Package cli implements the portfolio command line using cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/content"
	"portfolio-terminal/internal/server"
	"portfolio-terminal/internal/theme"
	"portfolio-terminal/internal/tui"
)

const version = "0.3.0"

var envFile string

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Terminal portfolio served over SSH and HTTP",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCommand())
	root.AddCommand(newConsoleCommand())
	root.AddCommand(newContentCommand())
	return root
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvFile applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the environment and configures the default logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	log.SetLevel(level)
	log.SetFormatter(log.LogfmtFormatter)
	log.SetReportTimestamp(true)
	return cfg, nil
}

func buildSetup(cfg config.Config) (*tui.Setup, error) {
	doc, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, err
	}
	return tui.NewSetup(doc, cfg.BootCadence, nil)
}

func themeOptions(cfg config.Config) (server.ThemeOptions, error) {
	variant, err := theme.ParseVariant(cfg.ThemeVariant)
	if err != nil {
		return server.ThemeOptions{}, fmt.Errorf("PORTFOLIO_THEME: %w", err)
	}
	return server.ThemeOptions{
		Variant:    variant,
		ForceColor: cfg.ThemeForceColor,
		ForceMono:  cfg.ThemeForceMono,
		Debug:      cfg.ThemeDebug,
	}, nil
}
