package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors for the retro terminal look.
type Theme struct {
	Name string

	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string
	Success    string
	Warning    string
	Danger     string

	SelectionBg   string
	SelectionText string
	Border        string
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)),

		Selection: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
	}
}

// Styles bundles the lipgloss styles derived from a theme.
type Styles struct {
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Selection lipgloss.Style
	StatusBar lipgloss.Style
	Pane      lipgloss.Style
}

var themes = []Theme{
	{
		Name:          "Ember",
		Background:    "#100a02",
		Surface:       "#241505",
		Text:          "#ffb000",
		Muted:         "#8a6a1e",
		Accent:        "#ffd75f",
		Success:       "#9acd32",
		Warning:       "#ff8700",
		Danger:        "#ff5f5f",
		SelectionBg:   "#ffb000",
		SelectionText: "#100a02",
		Border:        "#8a6a1e",
	},
	{
		Name:          "Phosphor",
		Background:    "#001100",
		Surface:       "#002200",
		Text:          "#33ff33",
		Muted:         "#1d8a1d",
		Accent:        "#aaffaa",
		Success:       "#33ff33",
		Warning:       "#ffff55",
		Danger:        "#ff5555",
		SelectionBg:   "#33ff33",
		SelectionText: "#001100",
		Border:        "#1d8a1d",
	},
}

// GetTheme returns the named theme, defaulting to the first when unknown.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name following the given one, wrapping around.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}
