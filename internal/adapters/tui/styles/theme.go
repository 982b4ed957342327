package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")
	Paper     = lipgloss.Color("#FEF3C7") // Sticky yellow

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Note card styles
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	CardSelected = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	CardHeader = lipgloss.NewStyle().
			Bold(true)

	CardText = lipgloss.NewStyle().
			Foreground(Paper)

	CardMinimized = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Anchor state
	Anchored = lipgloss.NewStyle().
			Foreground(Secondary)

	Unanchored = lipgloss.NewStyle().
			Foreground(Warning)

	Quote = lipgloss.NewStyle().
		Background(Warning).
		Foreground(Black)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// AnchorStyle returns the style for a note's anchor badge
func AnchorStyle(marked bool) lipgloss.Style {
	if marked {
		return Anchored
	}
	return Unanchored
}
