// Package textfield is a controlled single-line input. It keeps no domain
// state: every change, key press, focus and blur is handed to the owner's
// handlers, and the owner writes the bound value back with SetValue.
package textfield

import (
	"maps"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// Handlers receive the field's events. Nil entries are replaced by no-ops.
type Handlers struct {
	OnChange  func(value string) tea.Cmd
	OnKeyDown func(msg tea.KeyPressMsg) tea.Cmd
	OnFocus   func() tea.Cmd
	OnBlur    func() tea.Cmd
}

var (
	noopChange  = func(string) tea.Cmd { return nil }
	noopKeyDown = func(tea.KeyPressMsg) tea.Cmd { return nil }
	noopFocus   = func() tea.Cmd { return nil }
)

func (h Handlers) withDefaults() Handlers {
	if h.OnChange == nil {
		h.OnChange = noopChange
	}
	if h.OnKeyDown == nil {
		h.OnKeyDown = noopKeyDown
	}
	if h.OnFocus == nil {
		h.OnFocus = noopFocus
	}
	if h.OnBlur == nil {
		h.OnBlur = noopFocus
	}
	return h
}

// Model wraps a bubbles textinput.
type Model struct {
	input    textinput.Model
	handlers Handlers
	attrs    map[string]string
}

// New returns an unfocused field. The "placeholder" attribute is applied to
// the editor; every attribute stays readable through Attr.
func New(attrs map[string]string, h Handlers) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.SetWidth(60)

	m := Model{
		input:    ti,
		handlers: h.withDefaults(),
		attrs:    map[string]string{},
	}
	for k, v := range attrs {
		m.SetAttr(k, v)
	}
	return m
}

// SetHandlers replaces the handlers.
func (m *Model) SetHandlers(h Handlers) {
	m.handlers = h.withDefaults()
}

// Attr returns a pass-through attribute, or "" if unset.
func (m Model) Attr(name string) string {
	return m.attrs[name]
}

// Attrs returns a copy of all pass-through attributes.
func (m Model) Attrs() map[string]string {
	return maps.Clone(m.attrs)
}

func (m *Model) SetAttr(name, value string) {
	if m.attrs == nil {
		m.attrs = map[string]string{}
	}
	m.attrs[name] = value
	if name == "placeholder" {
		m.input.Placeholder = value
	}
}

func (m Model) Value() string { return m.input.Value() }

// SetValue writes the bound value without firing OnChange.
func (m *Model) SetValue(v string) {
	if m.input.Value() == v {
		return
	}
	m.input.SetValue(v)
	m.input.CursorEnd()
}

func (m *Model) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.input.SetWidth(w)
}

func (m Model) Focused() bool { return m.input.Focused() }

// Focus gives the field input focus and fires OnFocus.
func (m *Model) Focus() tea.Cmd {
	blink := m.input.Focus()
	return tea.Batch(blink, m.handlers.OnFocus())
}

// Blur removes input focus and fires OnBlur.
func (m *Model) Blur() tea.Cmd {
	m.input.Blur()
	return m.handlers.OnBlur()
}

// Update forwards key presses to OnKeyDown, then lets the editor handle the
// message and fires OnChange when the text differs from what it was after
// the key handler ran.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if key, ok := msg.(tea.KeyPressMsg); ok {
		cmds = append(cmds, m.handlers.OnKeyDown(key))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if after := m.input.Value(); after != before {
		cmds = append(cmds, m.handlers.OnChange(after))
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.input.View()
}
