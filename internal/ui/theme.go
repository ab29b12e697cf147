package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/pickup/internal/config"
	"github.com/oakwood-commons/pickup/internal/formatter"
	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/internal/ui/lookup"
)

// Theme defines the colors of the search box shell and its dropdown.
type Theme struct {
	Heading   color.Color // Heading line
	Label     color.Color // Field label
	Text      color.Color // Input text and unfocused rows
	Muted     color.Color // Location lines, footer, empty message
	FocusedFG color.Color // Focused row foreground
	FocusedBG color.Color // Focused row background
	Badges    map[place.Type]color.Color
}

// DefaultTheme returns the palette of the embedded default configuration,
// or a built-in palette if it cannot be read.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return fallbackTheme()
	}
	return ThemeFromConfig(cfg.UI.Theme)
}

func fallbackTheme() Theme {
	st := lookup.DefaultStyles()
	return Theme{
		Heading:   lipgloss.Color("81"),
		Label:     lipgloss.Color("252"),
		Text:      lipgloss.Color("250"),
		Muted:     lipgloss.Color("244"),
		FocusedFG: lipgloss.Color("255"),
		FocusedBG: lipgloss.Color("24"),
		Badges:    st.BadgeColor,
	}
}

// ThemeFromConfig converts configured color strings. Empty entries keep the
// built-in color.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(dst *color.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&th.Heading, tc.Heading)
	set(&th.Label, tc.Label)
	set(&th.Text, tc.Text)
	set(&th.Muted, tc.Muted)
	set(&th.FocusedFG, tc.FocusedFG)
	set(&th.FocusedBG, tc.FocusedBG)

	badges := make(map[place.Type]color.Color, len(th.Badges))
	for k, v := range th.Badges {
		badges[k] = v
	}
	for code, v := range tc.Badges {
		if v != "" {
			badges[place.Type(code)] = lipgloss.Color(v)
		}
	}
	th.Badges = badges
	return th
}

// LookupStyles builds the dropdown styles for th. noColor yields plain styles.
func (th Theme) LookupStyles(noColor bool) lookup.Styles {
	if noColor {
		return lookup.PlainStyles()
	}
	st := lookup.DefaultStyles()
	st.Input = lipgloss.NewStyle().Foreground(th.Label)
	st.Row = lipgloss.NewStyle().Foreground(th.Text)
	st.FocusedRow = lipgloss.NewStyle().Foreground(th.FocusedFG).Background(th.FocusedBG)
	st.Location = lipgloss.NewStyle().Foreground(th.Muted)
	st.Empty = lipgloss.NewStyle().Foreground(th.Muted).Italic(true)
	st.BadgeColor = th.Badges
	return st
}

// TableColors maps the theme onto the one-shot table and list output.
func (th Theme) TableColors() formatter.TableColors {
	return formatter.TableColors{
		HeaderFG:       th.Heading,
		HeaderBG:       th.FocusedBG,
		KeyColor:       th.Heading,
		ValueColor:     th.Text,
		SeparatorColor: th.Muted,
	}
}

// SetTableTheme applies th to the formatter package.
func SetTableTheme(th Theme) {
	formatter.SetTableTheme(th.TableColors())
}

type shellStyles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	footer  lipgloss.Style
	key     lipgloss.Style
	status  lipgloss.Style
}

func newShellStyles(th Theme, noColor bool) shellStyles {
	if noColor {
		plain := lipgloss.NewStyle()
		return shellStyles{
			heading: plain,
			label:   plain,
			footer:  plain,
			key:     plain,
			status:  plain,
		}
	}
	return shellStyles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(th.Heading),
		label:   lipgloss.NewStyle().Foreground(th.Label),
		footer:  lipgloss.NewStyle().Foreground(th.Muted),
		key:     lipgloss.NewStyle().Foreground(th.FocusedFG).Background(th.FocusedBG).Bold(true),
		status:  lipgloss.NewStyle().Foreground(th.Heading),
	}
}
