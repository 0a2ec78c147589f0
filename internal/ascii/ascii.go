package ascii

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
 _ __ _   _ _ __   __   _(_) _____      __
| '__| | | | '_ \  \ \ / / |/ _ \ \ /\ / /
| |  | |_| | | | |  \ V /| |  __/\ V  V /
|_|   \__,_|_| |_|   \_/ |_|\___| \_/\_/
`

// Logo returns the runview banner
func Logo() string {
	return strings.Trim(logo, "\n")
}

// Banner renders the logo with a tagline underneath, in the given colour
func Banner(color lipgloss.Color, tagline string) string {
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	out := style.Render(Logo())
	if tagline != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(tagline)
	}
	return out
}
