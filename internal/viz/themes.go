package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the status line.
type Theme struct {
	Name  string
	On    lipgloss.Color
	Off   lipgloss.Color
	Title lipgloss.Color
}

var (
	ThemeGold = Theme{
		Name:  "gold",
		On:    lipgloss.Color("#ffd700"),
		Off:   lipgloss.Color("#666666"),
		Title: lipgloss.Color("#ffcc00"),
	}

	ThemeMinimal = Theme{
		Name:  "minimal",
		On:    lipgloss.Color("#ffffff"),
		Off:   lipgloss.Color("#888888"),
		Title: lipgloss.Color("#cccccc"),
	}

	ThemeNeon = Theme{
		Name:  "neon",
		On:    lipgloss.Color("#00ff88"),
		Off:   lipgloss.Color("#ff00ff"),
		Title: lipgloss.Color("#00ffff"),
	}

	Themes = []Theme{ThemeGold, ThemeMinimal, ThemeNeon}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeGold
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
