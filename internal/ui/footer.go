package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// binding is one key hint of the footer.
type binding struct {
	key   string
	label string
}

var footerBindings = []binding{
	{"↑/↓", "move"},
	{"enter", "select"},
	{"tab", "focus"},
	{"ctrl+y", "copy"},
	{"esc", "close"},
	{"ctrl+c", "quit"},
}

// FooterModel renders the key hints below the dropdown.
type FooterModel struct {
	Width  int
	styles shellStyles
}

// NewFooterModel creates a footer drawing with st.
func NewFooterModel(st shellStyles) FooterModel {
	return FooterModel{Width: 92, styles: st}
}

// View renders the hints that fit in Width.
func (m FooterModel) View() string {
	parts := make([]string, 0, len(footerBindings))
	used := 0
	for _, b := range footerBindings {
		w := runewidth.StringWidth(b.key) + runewidth.StringWidth(b.label) + 2
		if m.Width > 0 && used+w > m.Width {
			break
		}
		used += w + 1
		parts = append(parts, m.styles.key.Render(" "+b.key+" ")+m.styles.footer.Render(b.label))
	}
	return strings.Join(parts, " ")
}

// SetWidth sets the width available to the footer.
func (m *FooterModel) SetWidth(width int) {
	m.Width = width
}
