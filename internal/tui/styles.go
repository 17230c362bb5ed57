package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
	borderPadding = 2
	modalWidth    = 56
)

// Color palette.
var (
	ColorAccent = lipgloss.Color("#E5A00D")
	ColorPanel  = lipgloss.Color("#1F2937")
	ColorDim    = lipgloss.Color("#6B7280")
	ColorLight  = lipgloss.Color("#9CA3AF")
	ColorWhite  = lipgloss.Color("#F9FAFB")
	ColorGreen  = lipgloss.Color("#10B981")
	ColorRed    = lipgloss.Color("#EF4444")
	ColorBlue   = lipgloss.Color("#3B82F6")
)

// Text styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLight)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	CriticalStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlue)
)

// Boxes and tables.
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorDim)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorAccent)
)

// Modal styles.
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorPanel).
			Padding(1, 2)

	ModalFailedStyle = ModalStyle.
				BorderForeground(ColorRed)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorLight).
			Background(ColorPanel).
			Padding(0, 2)

	ActiveButtonStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorAccent).
				Bold(true).
				Padding(0, 2)
)
