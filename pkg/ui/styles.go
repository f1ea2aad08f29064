package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Terminal palette colors so the output follows the user's scheme.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
	ColorDefault = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent)

	StyleTitle       = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleHeader      = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSubtle      = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	StyleBold        = lipgloss.NewStyle().Bold(true)
	StyleTableHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleTableRow    = lipgloss.NewStyle().Foreground(ColorDefault)
	StyleTableRowAlt = lipgloss.NewStyle().Foreground(ColorDefault).Faint(true)
	StyleTableBorder = lipgloss.NewStyle().Foreground(ColorMuted)

	IconSuccess  = "✔"
	IconError    = "✘"
	IconInfo     = "ℹ"
	IconWarning  = "⚠"
	IconFavorite = "★"
	IconMature   = "⛔"
	IconImage    = "🖼"
	IconImport   = "⇣"
)

// FormatSuccess returns a success message with icon.
func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

// FormatError returns an error message with icon.
func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

// FormatInfo returns an info message with icon.
func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

// FormatWarning returns a warning message with icon.
func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

// FormatTitle returns a formatted section title.
func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

// FormatMuted returns subtle text.
func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

// FormatBold returns bold text.
func FormatBold(text string) string {
	return StyleBold.Render(text)
}

// Favorite renders the favorite marker or an empty cell.
func Favorite(fav bool) string {
	if fav {
		return StyleWarning.Render(IconFavorite)
	}
	return " "
}

// MatureBadge renders the NSFW marker for flagged assets.
func MatureBadge(mature bool) string {
	if mature {
		return StyleError.Render(IconMature)
	}
	return ""
}
