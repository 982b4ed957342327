package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stickynotes/internal/application/commands"
)

var (
	occurrence      int
	clickOccurrence int
	renderOut       string
)

var attachCmd = &cobra.Command{
	Use:   "attach <note-id> <text>",
	Short: "Anchor a note to text in the page",
	Long: `Anchor a note to the n-th occurrence of text in the --doc snapshot.

The text is highlighted in the page and the anchor is saved so it can be
found again when the page changes.

Examples:
  stickynotes-cli -p https://example.com/report -d report.html attach 3f2a "annual report"
  stickynotes-cli -p https://example.com/report -d report.html attach 3f2a "Q3" --occurrence 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewAttachNoteCommand(s, args[0], args[1], occurrence).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var detachCmd = &cobra.Command{
	Use:   "detach <note-id>",
	Short: "Remove a note's anchor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewDetachNoteCommand(s, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var clickCmd = &cobra.Command{
	Use:   "click <text>",
	Short: "Click on text in the page",
	Long: `Click on the n-th occurrence of text in the --doc snapshot. A click
inside a note's highlight minimizes or restores that note.

Examples:
  stickynotes-cli -p https://example.com/report -d report.html click "annual report"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewClickTextCommand(s, args[0], clickOccurrence).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the page with anchored text highlighted",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewRenderPageCommand(s).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if renderOut == "" {
			fmt.Println(result.HTML)
			return nil
		}
		if err := os.WriteFile(renderOut, []byte(result.HTML), 0o644); err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	attachCmd.Flags().IntVarP(&occurrence, "occurrence", "n", 1, "which occurrence of the text to use")
	clickCmd.Flags().IntVarP(&clickOccurrence, "occurrence", "n", 1, "which occurrence of the text to click")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "write the page to a file instead of stdout")

	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(detachCmd)
	rootCmd.AddCommand(clickCmd)
	rootCmd.AddCommand(renderCmd)
}
