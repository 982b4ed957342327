package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stickynotes/internal/application/commands"
)

var (
	createX      float64
	createY      float64
	createWidth  float64
	createHeight float64
)

var createCmd = &cobra.Command{
	Use:   "create [text]",
	Short: "Create a note on the page",
	Long: `Create a note on the page given by --page.

Examples:
  stickynotes-cli -p https://example.com/report create "check Q3 figures"
  stickynotes-cli -p https://example.com/report create --x 300 --y 80`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		text := ""
		if len(args) == 1 {
			text = args[0]
		}

		c := commands.NewCreateNoteCommand(s, text)
		c.X, c.Y, c.Width, c.Height = createX, createY, createWidth, createHeight
		result, err := c.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <note-id> <text>",
	Short: "Replace a note's text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewEditNoteCommand(s, args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <note-id> <x> <y>",
	Short: "Move a note card",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		x, y, err := parsePair(args[1], args[2])
		if err != nil {
			return err
		}
		result, err := commands.NewMoveNoteCommand(s, args[0], x, y).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <note-id> <width> <height>",
	Short: "Resize a note card",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		w, h, err := parsePair(args[1], args[2])
		if err != nil {
			return err
		}
		result, err := commands.NewResizeNoteCommand(s, args[0], w, h).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <note-id>",
	Short: "Minimize or restore a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewToggleNoteCommand(s, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Long: `Delete a note from the page. If the note is anchored and --doc is
given, the highlighted text is restored first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetSession()
		if err != nil {
			return err
		}
		result, err := commands.NewDeleteNoteCommand(s, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func parsePair(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}

func init() {
	createCmd.Flags().Float64Var(&createX, "x", 50, "horizontal position")
	createCmd.Flags().Float64Var(&createY, "y", 50, "vertical position")
	createCmd.Flags().Float64Var(&createWidth, "width", 220, "card width")
	createCmd.Flags().Float64Var(&createHeight, "height", 160, "card height")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(deleteCmd)
}
