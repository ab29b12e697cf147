// Package ui hosts the interactive search box: a heading and label around the
// location lookup, a key hint footer, and the program, startup-key and
// snapshot entry points used by the CLI.
package ui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/internal/ui/lookup"
	"github.com/oakwood-commons/pickup/pkg/logger"
)

const (
	DefaultHeading = "Let's find your ideal car"
	DefaultLabel   = "Pick-up location"

	defaultWidth  = 80
	defaultHeight = 24

	// headerLines is the number of lines above the input: heading, blank, label.
	headerLines = 3
)

// Config configures the search box.
type Config struct {
	Lookup   lookup.Config
	Heading  string
	Label    string
	MaxWidth int // 0 means the full terminal width
	NoColor  bool
	Theme    *Theme
}

// Model is the top-level Bubble Tea model.
type Model struct {
	Lookup *lookup.Model
	Footer FooterModel

	ctx      context.Context
	heading  string
	label    string
	maxWidth int
	NoColor  bool
	styles   shellStyles

	WinWidth  int
	WinHeight int

	StatusMsg string
	Confirmed bool
	Quitting  bool
}

// NewModel builds the search box. ctx carries the logger and bounds every search.
func NewModel(ctx context.Context, cfg Config) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	th := DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	if cfg.Lookup.Styles == nil {
		st := th.LookupStyles(cfg.NoColor)
		cfg.Lookup.Styles = &st
	}
	if cfg.Heading == "" {
		cfg.Heading = DefaultHeading
	}
	if cfg.Label == "" {
		cfg.Label = DefaultLabel
	}

	styles := newShellStyles(th, cfg.NoColor)
	m := &Model{
		Lookup:   lookup.New(ctx, cfg.Lookup),
		Footer:   NewFooterModel(styles),
		ctx:      ctx,
		heading:  cfg.Heading,
		label:    cfg.Label,
		maxWidth: cfg.MaxWidth,
		NoColor:  cfg.NoColor,
		styles:   styles,
	}
	m.Lookup.Top = headerLines
	m.resize(defaultWidth, defaultHeight)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.Lookup.Init()
}

// Choice returns the selected place once the user confirmed it.
func (m *Model) Choice() (place.Record, bool) {
	if !m.Confirmed {
		return place.Record{}, false
	}
	return m.Lookup.Selected()
}

func (m *Model) resize(w, h int) {
	m.WinWidth = w
	m.WinHeight = h
	width := w
	if m.maxWidth > 0 && width > m.maxWidth {
		width = m.maxWidth
	}
	m.Lookup.SetWidth(width)
	m.Footer.SetWidth(width)
}

// Update handles window, quit and clipboard keys and hands everything else to the lookup.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		m.StatusMsg = ""
		switch msg.String() {
		case "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "esc":
			if !m.Lookup.DropdownVisible() {
				m.Quitting = true
				return m, tea.Quit
			}
		case "enter":
			if _, ok := m.Lookup.Selected(); ok && !m.Lookup.DropdownVisible() {
				m.Confirmed = true
				m.Quitting = true
				return m, tea.Quit
			}
		case "ctrl+y":
			m.copySelection()
			return m, nil
		}
	}

	_, cmd := m.Lookup.Update(msg)
	return m, cmd
}

func (m *Model) copySelection() {
	rec, ok := m.Lookup.Selected()
	if !ok {
		m.StatusMsg = "nothing selected"
		return
	}
	if err := CopyToClipboard(rec.DisplayText()); err != nil {
		logger.FromContext(m.ctx).V(1).Info("clipboard copy failed", "error", err.Error())
		m.StatusMsg = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.StatusMsg = "copied to clipboard"
}

// Render draws the full screen as a string.
func (m *Model) Render() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render(m.heading) + "\n\n")
	b.WriteString(m.styles.label.Render(m.label) + "\n")
	b.WriteString(m.Lookup.View() + "\n\n")
	if m.StatusMsg != "" {
		b.WriteString(m.styles.status.Render(m.StatusMsg) + "\n")
	}
	b.WriteString(m.Footer.View())
	view := b.String()
	if m.NoColor {
		view = ansi.Strip(view)
	}
	return view
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.ReportFocus = true
	// Keyboard enhancements let shift+tab arrive as a modified key.
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}
