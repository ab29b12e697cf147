package lookup

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/pickup/internal/place"
)

// Styles controls how the input line and dropdown rows are drawn.
type Styles struct {
	Input      lipgloss.Style
	Row        lipgloss.Style
	FocusedRow lipgloss.Style
	Match      lipgloss.Style
	Location   lipgloss.Style
	Badge      lipgloss.Style
	Empty      lipgloss.Style
	BadgeColor map[place.Type]color.Color

	// Cursor marks the focused row; it is the only focus cue when colors are off.
	Cursor string
}

// DefaultStyles returns a 256-color palette.
func DefaultStyles() Styles {
	return Styles{
		Input:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Row:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		FocusedRow: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("24")),
		Match:      lipgloss.NewStyle().Bold(true).Underline(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Badge:      lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Bold(true),
		Empty:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		BadgeColor: map[place.Type]color.Color{
			place.Airport:  lipgloss.Color("75"),
			place.City:     lipgloss.Color("114"),
			place.Region:   lipgloss.Color("179"),
			place.District: lipgloss.Color("180"),
			place.Station:  lipgloss.Color("141"),
			place.General:  lipgloss.Color("246"),
			place.Port:     lipgloss.Color("80"),
		},
		Cursor: "›",
	}
}

// PlainStyles draws without color or attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Input:      plain,
		Row:        plain,
		FocusedRow: plain,
		Match:      plain,
		Location:   plain,
		Badge:      plain,
		Empty:      plain,
		Cursor:     ">",
	}
}

const (
	badgeWidth   = 10
	locationGap  = "  "
	emptyMessage = "no matching locations"
)

// RenderList draws one terminal line per row, each at most width cells wide
// (width <= 0 disables truncation).
func RenderList(rows []Row, st Styles, width int) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, renderRow(row, st, width))
	}
	return strings.Join(lines, "\n")
}

// RenderEmpty is drawn in place of rows when a search returned nothing.
func RenderEmpty(st Styles, width int) string {
	text := "  " + emptyMessage
	if width > 0 {
		text = runewidth.Truncate(text, width, "")
	}
	return st.Empty.Render(text)
}

func renderRow(row Row, st Styles, width int) string {
	base := st.Row
	cursor := " "
	if row.Focused {
		base = st.FocusedRow
		cursor = st.Cursor
	}
	cursor = runewidth.FillRight(cursor, 2)

	badge := ""
	if row.Indicator != "" {
		badge = runewidth.FillRight("["+row.Indicator+"]", badgeWidth)
	} else {
		badge = strings.Repeat(" ", badgeWidth)
	}

	avail := -1
	if width > 0 {
		avail = width - runewidth.StringWidth(cursor) - badgeWidth
		if avail < 0 {
			avail = 0
		}
	}
	title := truncateSegments(row.Title, avail)
	used := runewidth.StringWidth(title.Text())

	location := ""
	switch {
	case row.Location == "":
	case avail < 0:
		location = locationGap + row.Location
	case avail-used > runewidth.StringWidth(locationGap):
		location = runewidth.Truncate(locationGap+row.Location, avail-used, "…")
	}
	used += runewidth.StringWidth(location)

	pad := ""
	if avail > used {
		pad = strings.Repeat(" ", avail-used)
	}

	badgeStyle := st.Badge.Inherit(base)
	if c, ok := st.BadgeColor[row.PlaceType]; ok && row.Indicator != "" {
		badgeStyle = st.Badge.Foreground(c).Inherit(base)
	}

	var b strings.Builder
	b.WriteString(base.Render(cursor))
	b.WriteString(badgeStyle.Render(badge))
	if title.Prefix != "" {
		b.WriteString(base.Render(title.Prefix))
	}
	if title.Match != "" {
		b.WriteString(st.Match.Inherit(base).Render(title.Match))
	}
	if title.Suffix != "" {
		b.WriteString(base.Render(title.Suffix))
	}
	if location != "" {
		b.WriteString(st.Location.Inherit(base).Render(location))
	}
	if pad != "" {
		b.WriteString(base.Render(pad))
	}
	return b.String()
}

// truncateSegments shortens s to at most width cells, cutting from the end.
// A negative width leaves s untouched.
func truncateSegments(s Segments, width int) Segments {
	if width < 0 || runewidth.StringWidth(s.Text()) <= width {
		return s
	}
	if width == 0 {
		return Segments{}
	}
	full := runewidth.Truncate(s.Text(), width, "…")
	out := Segments{}
	remaining := []rune(full)
	take := func(seg string) string {
		n := min(len([]rune(seg)), len(remaining))
		part := string(remaining[:n])
		remaining = remaining[n:]
		return part
	}
	out.Prefix = take(s.Prefix)
	out.Match = take(s.Match)
	out.Suffix = string(remaining)
	return out
}
