package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-terminal/internal/content"
)

func newContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect the portfolio content file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Check a content file and its command table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args)
			if err != nil {
				return err
			}
			table, err := content.Commands(doc, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s, %d commands\n", doc.Personal.Name, table.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dump [path]",
		Short: "Print the resolved content document as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "commands [path]",
		Short: "List the console commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args)
			if err != nil {
				return err
			}
			table, err := content.Commands(doc, nil)
			if err != nil {
				return err
			}
			for _, name := range table.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})
	return cmd
}

// loadDocument reads the path argument, then PORTFOLIO_CONTENT_PATH, then the
// embedded default.
func loadDocument(args []string) (*content.Document, error) {
	if len(args) == 1 {
		return content.Load(args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return content.Load(cfg.ContentPath)
}
