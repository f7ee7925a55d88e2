package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorInfo      = lipgloss.Color("#38BDF8")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Trace styles
var (
	// Nonterminals: [expr, [term, [factor
	RuleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Terminal kind in leaves: id, int_constant
	LeafRuleStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	// Lexeme inside a leaf
	LexemeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Operators and parentheses
	SymbolStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Closing brackets
	BracketStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Diagnostics written into the trace
	DiagnosticStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// Chrome styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(colorError)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

// Helper functions
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

func RenderError(err string) string {
	return ErrorMessageStyle.Render("Error: " + err)
}

func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}
