package ui

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// searchMan types "Man" and settles the debounced search.
func searchMan(t *testing.T, m *Model) {
	t.Helper()
	typeInto(m, "Man")
	m.Lookup.Settle()
	require.Len(t, m.Lookup.Results(), 3)
	require.True(t, m.Lookup.DropdownVisible())
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	assert.Equal(t, DefaultHeading, m.heading)
	assert.Equal(t, DefaultLabel, m.label)
	assert.Equal(t, headerLines, m.Lookup.Top)
	assert.Equal(t, defaultWidth, m.WinWidth)
}

func TestWindowSizeRespectsMaxWidth(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.maxWidth = 50
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 200, m.WinWidth)
	assert.Equal(t, 40, m.WinHeight)
	assert.Equal(t, 50, m.Footer.Width)
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting)
	_, chosen := m.Choice()
	assert.False(t, chosen)
}

func TestEscClosesDropdownBeforeQuitting(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	searchMan(t, m)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.False(t, m.Quitting)
	assert.False(t, m.Lookup.DropdownVisible())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.NotNil(t, cmd)
	assert.True(t, m.Quitting)
}

func TestEnterSelectsThenConfirms(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	searchMan(t, m)

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Quitting)
	assert.Equal(t, "Ronaldsway Airport (IOM), Isle of Man", m.Lookup.Query())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.NotNil(t, cmd)
	rec, ok := m.Choice()
	require.True(t, ok)
	assert.Equal(t, "airport-38573", string(rec.BookingID))
}

func TestCopySelection(t *testing.T) {
	var copied string
	restore := StubPlatformActions(func(s string) error {
		copied = s
		return nil
	})
	t.Cleanup(restore)

	m := newTestModel(&fakeSearcher{})
	m.Update(tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl})
	assert.Equal(t, "nothing selected", m.StatusMsg)

	searchMan(t, m)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m.Update(tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl})
	assert.Equal(t, "Manchester Airport (MAN), Greater Manchester, United Kingdom", copied)
	assert.Equal(t, "copied to clipboard", m.StatusMsg)
	assert.Contains(t, m.Render(), "copied to clipboard")

	// Any key clears the status line.
	m.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Empty(t, m.StatusMsg)
}

func TestCopySelectionFailure(t *testing.T) {
	t.Cleanup(StubPlatformActions(func(string) error { return errors.New("no clipboard") }))

	m := newTestModel(&fakeSearcher{})
	searchMan(t, m)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m.Update(tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl})
	assert.Equal(t, "copy failed: no clipboard", m.StatusMsg)
}

func TestRenderLayout(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	lines := strings.Split(m.Render(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, DefaultHeading, lines[0])
	assert.Empty(t, lines[1])
	assert.Equal(t, DefaultLabel, lines[2])
	assert.Contains(t, lines[headerLines], "airport, station")
	assert.Contains(t, lines[len(lines)-1], "ctrl+c")
	assert.NotContains(t, m.Render(), "\x1b[", "no-color output is stripped of escape codes")
}

func TestRenderShowsRowsUnderInput(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	searchMan(t, m)
	lines := strings.Split(m.Render(), "\n")
	assert.Contains(t, lines[headerLines], "Man")
	assert.Contains(t, lines[headerLines+1], "Manchester Airport (MAN)")
	assert.True(t, strings.HasPrefix(lines[headerLines+1], ">"))
	assert.Contains(t, lines[headerLines+3], "Ronaldsway Airport (IOM)")
}

func TestMouseClickOnRowUsesScreenCoordinates(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	searchMan(t, m)
	m.Update(tea.MouseClickMsg{X: 4, Y: headerLines + 2, Button: tea.MouseLeft})
	assert.Equal(t, "Manchester, Greater Manchester, United Kingdom", m.Lookup.Query())
	assert.False(t, m.Lookup.DropdownVisible())
}

func TestViewEnablesTerminalFeatures(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.True(t, v.ReportFocus)
	assert.Equal(t, tea.MouseModeAllMotion, v.MouseMode)
}
