package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the stress gradient and the HUD colors.
type Theme struct {
	Name       string
	Gradient   [GradientSize]lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
}

// Available themes
var (
	// console mirrors the classic 16-color console palette
	ThemeConsole = Theme{
		Name: "console",
		Gradient: [GradientSize]lipgloss.Color{
			"#000080", // dark blue
			"#0000ff", // blue
			"#008080", // dark cyan
			"#00ffff", // cyan
			"#00ff00", // green
			"#808000", // dark yellow
			"#ff0000", // red
			"#800000", // dark red
		},
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#c0c0c0"),
		Muted:      lipgloss.Color("#808080"),
		Accent:     lipgloss.Color("#00ffff"),
		Border:     lipgloss.Color("#444466"),
	}

	ThemeThermal = Theme{
		Name: "thermal",
		Gradient: [GradientSize]lipgloss.Color{
			"#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
			"#cf4446", "#ed6925", "#fb9b06", "#fcffa4",
		},
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Accent:     lipgloss.Color("#fb9b06"),
		Border:     lipgloss.Color("#444444"),
	}

	ThemeOcean = Theme{
		Name: "ocean",
		Gradient: [GradientSize]lipgloss.Color{
			"#001a33", "#003366", "#0077be", "#00a8cc",
			"#48cae4", "#90e0ef", "#ffd700", "#ff4444",
		},
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Accent:     lipgloss.Color("#ffd700"),
		Border:     lipgloss.Color("#4488aa"),
	}

	ThemeMono = Theme{
		Name: "mono",
		Gradient: [GradientSize]lipgloss.Color{
			"#303030", "#4e4e4e", "#6c6c6c", "#8a8a8a",
			"#a8a8a8", "#c6c6c6", "#e4e4e4", "#ffffff",
		},
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Accent:     lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#444444"),
	}

	DefaultTheme = ThemeConsole

	Themes = []Theme{
		ThemeConsole,
		ThemeThermal,
		ThemeOcean,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) Color(c Color) lipgloss.Color {
	if int(c) >= GradientSize {
		c = GradientSize - 1
	}
	return t.Gradient[c]
}

// RGB returns the color's channels for non-terminal surfaces.
func (t Theme) RGB(c Color) (r, g, b uint8) {
	return ParseHex(string(t.Color(c)))
}

// ParseHex decodes "#rrggbb". Anything else yields white.
func ParseHex(hex string) (r, g, b uint8) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 255, 255, 255
	}
	return c.RGB255()
}
