// Package formatter renders search results for the one-shot CLI: columnar
// tables and lists for terminals, and JSON, YAML or TOML for machines.
package formatter

import (
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const fallbackWidth = 120

// TableColors controls the colors of tables and lists. Nil fields keep the
// built-in ANSI 256 colors.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

type palette struct {
	header, key, value, separator lipgloss.Style
}

var (
	builtinColors = TableColors{
		HeaderFG:       lipgloss.Color("12"),
		HeaderBG:       lipgloss.Color("236"),
		KeyColor:       lipgloss.Color("14"),
		ValueColor:     lipgloss.Color("248"),
		SeparatorColor: lipgloss.Color("240"),
	}
	styles = newPalette(TableColors{})
)

func orColor(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

func newPalette(tc TableColors) palette {
	b := builtinColors
	return palette{
		header: lipgloss.NewStyle().Bold(true).
			Foreground(orColor(tc.HeaderFG, b.HeaderFG)).
			Background(orColor(tc.HeaderBG, b.HeaderBG)),
		key:       lipgloss.NewStyle().Foreground(orColor(tc.KeyColor, b.KeyColor)),
		value:     lipgloss.NewStyle().Foreground(orColor(tc.ValueColor, b.ValueColor)),
		separator: lipgloss.NewStyle().Foreground(orColor(tc.SeparatorColor, b.SeparatorColor)),
	}
}

// SetTableTheme replaces the colors used by RenderColumnarTable and FormatAsList.
func SetTableTheme(tc TableColors) {
	styles = newPalette(tc)
}

// paint renders s with st unless plain is set.
func paint(st lipgloss.Style, s string, plain bool) string {
	if plain {
		return s
	}
	return st.Render(s)
}

// TerminalWidth returns the width of stdout, or 120 when it is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}

// truncate shortens s to limit display cells, ending in "..." when there is room.
func truncate(s string, limit int) string {
	switch {
	case limit <= 0 || runewidth.StringWidth(s) <= limit:
		return s
	case limit < 3:
		return runewidth.Truncate(s, limit, "")
	default:
		return runewidth.Truncate(s, limit, "...")
	}
}

// fit pads or truncates s to exactly width display cells.
func fit(s string, width int, alignRight bool) string {
	gap := width - runewidth.StringWidth(s)
	switch {
	case gap <= 0:
		return truncate(s, width)
	case alignRight:
		return strings.Repeat(" ", gap) + s
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func padRight(s string, width int) string { return fit(s, width, false) }
func padLeft(s string, width int) string  { return fit(s, width, true) }
