package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗  ██╗ █████╗ ███╗   ███╗███████╗███╗   ██╗
 ██╔════╝╚██╗██╔╝██╔══██╗████╗ ████║██╔════╝████╗  ██║
 █████╗   ╚███╔╝ ███████║██╔████╔██║█████╗  ██╔██╗ ██║
 ██╔══╝   ██╔██╗ ██╔══██║██║╚██╔╝██║██╔══╝  ██║╚██╗██║
 ███████╗██╔╝ ██╗██║  ██║██║ ╚═╝ ██║███████╗██║ ╚████║
 ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═══╝`

const bannerCompact = "E X A M E N   C I V I Q U E"

// RenderBanner returns the banner styled in the primary color. Uses a
// compact fallback for terminals narrower than 58 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 58 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

// RenderFlag draws the tricolore, one row per line.
func RenderFlag(rows int) string {
	band := strings.Repeat(" ", 6)
	line := lipgloss.NewStyle().Background(theme.Primary).Render(band) +
		lipgloss.NewStyle().Background(theme.Text).Render(band) +
		lipgloss.NewStyle().Background(theme.Accent).Render(band)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
