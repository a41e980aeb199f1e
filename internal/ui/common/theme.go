package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/comment"
)

// Site pink and depth colors for reply nesting.
var (
	Accent = lipgloss.Color("#E0457B")
	Muted  = lipgloss.Color("#828282")

	// DepthColors cycles through these for nested reply bars.
	DepthColors = []lipgloss.Color{
		"#E0457B", // pink
		"#828282", // gray
		"#00BFFF", // deep sky blue
		"#32CD32", // lime green
		"#FFD700", // gold
		"#9370DB", // medium purple
		"#20B2AA", // light sea green
	}

	TitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(1, 0)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	MetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	AuthorStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333"))

	HintStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	DisclosureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00BFFF")).
			Underline(true)

	ownerBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(Accent).
			Bold(true).
			Padding(0, 1)

	selfBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#32CD32")).
			Bold(true).
			Padding(0, 1)

	originBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#5B4FCF")).
				Padding(0, 1)
)

// RenderBadge styles a comment badge by kind.
func RenderBadge(b comment.Badge) string {
	switch b.Kind {
	case comment.BadgeOwner:
		return ownerBadgeStyle.Render(b.Text)
	case comment.BadgeSelf:
		return selfBadgeStyle.Render(b.Text)
	default:
		return originBadgeStyle.Render(b.Text)
	}
}

// DepthColor returns the bar color for a nesting depth.
func DepthColor(depth int) lipgloss.Color {
	return DepthColors[depth%len(DepthColors)]
}
