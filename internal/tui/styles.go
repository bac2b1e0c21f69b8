package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/model"
)

const (
	themePlain    = "plain"
	themeTerminal = "terminal"
)

var themeNames = []string{themePlain, themeTerminal}

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
	border    lipgloss.Border
	// cursor is the row marker for the focused line.
	cursor string
}

var palettes = map[string]palette{
	themePlain: {
		primary:   "#4F46E5",
		secondary: "#0EA5E9",
		accent:    "#DB2777",
		muted:     "#6B7280",
		success:   "#16A34A",
		warning:   "#D97706",
		err:       "#DC2626",
		fg:        "#E5E7EB",
		subtle:    "#4B5563",
		highlight: "#60A5FA",
		border:    lipgloss.RoundedBorder(),
		cursor:    "> ",
	},
	themeTerminal: {
		primary:   "#33FF33",
		secondary: "#00CC66",
		accent:    "#FFB000",
		muted:     "#1F8F3F",
		success:   "#33FF33",
		warning:   "#FFB000",
		err:       "#FF3333",
		fg:        "#B6FFB6",
		subtle:    "#145A28",
		highlight: "#66FF99",
		border:    lipgloss.NormalBorder(),
		cursor:    "$ ",
	},
}

// Color palette of the active theme
var (
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorMuted     lipgloss.Color
	colorSubtle    lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	cursorMarker   string
	activeTheme    string
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyTheme(themeTerminal)
}

// applyTheme swaps every style to the named theme. Unknown names fall back
// to the terminal theme. Only the look changes; no view state is touched.
func applyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		name = themeTerminal
		p = palettes[name]
	}
	activeTheme = name

	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorMuted = p.muted
	colorSubtle = p.subtle
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	cursorMarker = p.cursor

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.primary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(p.muted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(p.border).
		BorderForeground(p.subtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(p.border).
		BorderForeground(p.primary).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.fg)

	accentStyle = lipgloss.NewStyle().Foreground(p.accent)
	successStyle = lipgloss.NewStyle().Foreground(p.success)
	warningStyle = lipgloss.NewStyle().Foreground(p.warning)
	errorStyle = lipgloss.NewStyle().Foreground(p.err)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	highlightStyle = lipgloss.NewStyle().Foreground(p.highlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
		Foreground(p.muted).
		Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
		Foreground(p.primary).
		Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(p.fg)
}

var tagColors = map[model.TagColor]lipgloss.Color{
	"red":    "#EF4444",
	"orange": "#F97316",
	"amber":  "#F59E0B",
	"lime":   "#84CC16",
	"green":  "#22C55E",
	"teal":   "#14B8A6",
	"cyan":   "#06B6D4",
	"blue":   "#3B82F6",
	"indigo": "#6366F1",
	"purple": "#A855F7",
	"pink":   "#EC4899",
	"rose":   "#F43F5E",
}

func tagStyle(c model.TagColor) lipgloss.Style {
	col, ok := tagColors[c]
	if !ok {
		col = colorMuted
	}
	return lipgloss.NewStyle().Foreground(col)
}

func statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusActive:
		return successStyle
	case model.StatusPending:
		return warningStyle
	case model.StatusError:
		return errorStyle
	case model.StatusCompleted:
		return highlightStyle
	default:
		return mutedStyle
	}
}

func priorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return errorStyle
	case model.PriorityMedium:
		return warningStyle
	default:
		return mutedStyle
	}
}
