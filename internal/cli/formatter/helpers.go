package formatter

import (
	"fmt"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// RiskIndicator returns a colored risk marker such as "● CRITICAL".
func RiskIndicator(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskCritical:
		return StyleRed.Render("● CRITICAL")
	case domain.RiskAtRisk:
		return StyleYellow.Render("● AT RISK")
	case domain.RiskOnTrack:
		return StyleGreen.Render("● ON TRACK")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// StatusBadge colors a lifecycle status string: green for terminal-good
// states, yellow for in-flight, dim otherwise.
func StatusBadge(status string) string {
	switch status {
	case "accepted", "completed", "planned":
		return StyleGreen.Render(status)
	case "in_progress", "draft", "scheduled":
		return StyleYellow.Render(status)
	case "archived":
		return StyleDim.Render(status)
	default:
		return StyleFg.Render(status)
	}
}

// Hours formats a float hour count compactly.
func Hours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// Money formats a currency amount without assuming a currency symbol.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// YesNo renders a boolean as a colored yes/no.
func YesNo(v bool) string {
	if v {
		return StyleGreen.Render("yes")
	}
	return StyleRed.Render("no")
}
