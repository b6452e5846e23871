package nest

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7F00FF")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF4B4B")).
			Padding(0, 2)

	storyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#31333F")).
			Background(lipgloss.Color("#F0F2F6")).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#7F00FF")).
			Padding(1, 2)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4B4B")).
			Background(lipgloss.Color("#FFF0F0")).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#DDDDDD")).
			Align(lipgloss.Center).
			Padding(0, 1).
			MarginTop(1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4B4B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)
