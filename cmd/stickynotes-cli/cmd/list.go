package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stickynotes/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes on a page",
	Long: `List the notes stored for --page.

Examples:
  stickynotes-cli -p https://example.com/report list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pageURL == "" {
			return errors.New("--page is required")
		}
		notes, err := commands.NewListNotesCommand(store, pageURL).Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, n := range notes {
			line := fmt.Sprintf("%s (%g,%g) %gx%g", n.ID, n.X, n.Y, n.Width, n.Height)
			if n.Minimized {
				line += " [minimized]"
			}
			if n.Anchor != nil {
				line += fmt.Sprintf(" %q", n.Anchor.Quote)
			}
			if n.Text != "" {
				line += " " + strings.ReplaceAll(n.Text, "\n", " ")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages that have notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := commands.NewListPagesCommand(store).Execute(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range pages {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pagesCmd)
}
