package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// StatusStyle returns the badge style for a configuration status name
func StatusStyle(status string) *pterm.Style {
	switch status {
	case "up-to-date":
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)
	case "new", "new-source-sections":
		return pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
	case "destination-is-old-version":
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case "destination-has-changed":
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusBadge renders status padded to width inside its badge colours
func StatusBadge(status string, width int) string {
	return StatusStyle(status).Sprint(fmt.Sprintf(" %-*s ", width, status))
}

// SuccessIndicator marks an applied update
func SuccessIndicator() string { return Render("Success", "✓") }

// ErrorIndicator marks a failed update
func ErrorIndicator() string { return Render("Error", "✗") }

// SkipIndicator marks an update that was refused or not needed
func SkipIndicator() string { return Render("Muted", "○") }
