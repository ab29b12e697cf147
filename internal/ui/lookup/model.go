// Package lookup implements the location lookup widget: a text field whose
// debounced value drives remote searches, and a keyboard and mouse
// navigable dropdown of the places found.
package lookup

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/pickup/internal/debounce"
	"github.com/oakwood-commons/pickup/internal/fts"
	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/internal/ui/textfield"
	"github.com/oakwood-commons/pickup/pkg/logger"
)

const (
	DefaultDebounce  = 700 * time.Millisecond
	DefaultTimeout   = 10 * time.Second
	DefaultInputID   = "rc-lookup-input"
	DefaultListboxID = "rcLookupDropdownList"

	// MinQueryLength is the shortest query (in runes) that is sent to the search endpoint.
	MinQueryLength = 2
)

// Key is a navigation key understood by KeyDown.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyEnter
)

// KeyFromMsg maps a terminal key press to a navigation key.
func KeyFromMsg(msg tea.KeyPressMsg) Key {
	switch msg.String() {
	case "down", "ctrl+n":
		return KeyDown
	case "up", "ctrl+p":
		return KeyUp
	case "enter":
		return KeyEnter
	}
	return KeyNone
}

// SearchResultMsg carries the outcome of one search back into Update.
// Owner is the input id of the lookup that issued the search.
type SearchResultMsg struct {
	Owner    string
	Seq      uint64
	Query    string
	Response *fts.Response
	Err      error
}

// Config holds construction options. Zero values take the defaults above,
// except Debounce, where zero fires on the next message.
type Config struct {
	Searcher    fts.Searcher
	Debounce    time.Duration
	Timeout     time.Duration
	InputID     string
	ListboxID   string
	Placeholder string
	Styles      *Styles
}

// Model is the lookup controller. All state changes go through its methods,
// which must be called from the Bubble Tea event loop.
type Model struct {
	input     textfield.Model
	searcher  fts.Searcher
	debouncer *debounce.Debouncer
	timeout   time.Duration
	inputID   string
	listboxID string
	styles    Styles
	ctx       context.Context

	query           string
	results         []place.Record
	focusedIndex    int
	dropdownVisible bool
	seq             uint64
	selected        *place.Record

	// Top is the screen row of the input line; dropdown row i is drawn at Top+1+i.
	Top   int
	width int
}

// New builds a controller. ctx supplies the logger and is the parent of every search request.
func New(ctx context.Context, cfg Config) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.InputID == "" {
		cfg.InputID = DefaultInputID
	}
	if cfg.ListboxID == "" {
		cfg.ListboxID = DefaultListboxID
	}
	styles := DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}

	m := &Model{
		searcher:  cfg.Searcher,
		debouncer: debounce.New(cfg.InputID, cfg.Debounce),
		timeout:   cfg.Timeout,
		inputID:   cfg.InputID,
		listboxID: cfg.ListboxID,
		styles:    styles,
		ctx:       ctx,
	}
	m.input = textfield.New(map[string]string{
		"id":          cfg.InputID,
		"name":        cfg.InputID,
		"placeholder": cfg.Placeholder,
	}, textfield.Handlers{
		OnChange: m.QueryChanged,
		OnKeyDown: func(msg tea.KeyPressMsg) tea.Cmd {
			m.KeyDown(KeyFromMsg(msg))
			return nil
		},
		OnFocus: func() tea.Cmd {
			m.ShowDropdown(true)
			return nil
		},
		OnBlur: func() tea.Cmd {
			m.ShowDropdown(false)
			return nil
		},
	})
	m.sync()
	return m
}

func (m *Model) log() *logr.Logger {
	return logger.FromContext(m.ctx)
}

// Init focuses the input.
func (m *Model) Init() tea.Cmd {
	return m.Focus()
}

func (m *Model) Query() string { return m.query }
func (m *Model) Results() []place.Record { return m.results }
func (m *Model) FocusedIndex() int { return m.focusedIndex }
func (m *Model) DropdownVisible() bool { return m.dropdownVisible }
func (m *Model) Focused() bool { return m.input.Focused() }
func (m *Model) Debouncer() *debounce.Debouncer { return m.debouncer }

// Selected returns the record chosen by the last selection, if the query
// has not been edited since.
func (m *Model) Selected() (place.Record, bool) {
	if m.selected == nil {
		return place.Record{}, false
	}
	return *m.selected, true
}

// Rows renders the current results.
func (m *Model) Rows() []Row {
	return Render(m.results, m.focusedIndex, m.query)
}

// SetWidth sets the width available to the input and the dropdown.
func (m *Model) SetWidth(w int) {
	m.width = w
	m.input.SetWidth(w - 2)
}

// QueryChanged records the new input text. Queries shorter than
// MinQueryLength clear the results at once; longer ones schedule a
// debounced search.
func (m *Model) QueryChanged(text string) tea.Cmd {
	m.query = text
	m.selected = nil
	m.seq++
	defer m.sync()

	if utf8.RuneCountInString(text) < MinQueryLength {
		m.debouncer.Cancel()
		m.results = nil
		m.focusedIndex = 0
		m.dropdownVisible = false
		return nil
	}
	return m.debouncer.Schedule(text)
}

// ExecuteSearch starts a search for text. The returned command resolves to a
// SearchResultMsg tagged with the current request sequence.
func (m *Model) ExecuteSearch(text string) tea.Cmd {
	if utf8.RuneCountInString(text) < MinQueryLength || m.searcher == nil {
		return nil
	}
	m.seq++
	seq := m.seq
	owner, searcher, timeout, parent := m.inputID, m.searcher, m.timeout, m.ctx
	m.log().V(1).Info("search started", logger.QueryKey, text, logger.SequenceKey, seq)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		resp, err := searcher.Search(ctx, text)
		return SearchResultMsg{Owner: owner, Seq: seq, Query: text, Response: resp, Err: err}
	}
}

func (m *Model) applyResult(msg SearchResultMsg) {
	lgr := m.log().WithValues(logger.QueryKey, msg.Query, logger.SequenceKey, msg.Seq)
	if msg.Seq != m.seq {
		lgr.V(1).Info("discarding stale search response", "latest", m.seq)
		return
	}
	if msg.Err != nil {
		lgr.V(1).Info("search failed", "error", msg.Err.Error())
		return
	}
	var docs []place.Record
	if msg.Response != nil {
		docs = msg.Response.Docs
	}
	m.results = docs
	m.focusedIndex = 0
	m.dropdownVisible = true
	lgr.V(1).Info("search results applied", "count", len(docs))
	m.sync()
}

// KeyDown moves the focused row or selects it. With no results every key is a no-op.
func (m *Model) KeyDown(key Key) {
	n := len(m.results)
	if n == 0 {
		return
	}
	switch key {
	case KeyDown:
		m.focusedIndex = (m.focusedIndex + 1) % n
		m.dropdownVisible = true
	case KeyUp:
		m.focusedIndex = (m.focusedIndex - 1 + n) % n
		m.dropdownVisible = true
	case KeyEnter:
		m.SelectItem(m.focusedIndex)
		return
	default:
		return
	}
	m.sync()
}

// SelectItem writes the display text of result index into the input and
// closes the dropdown. Out-of-range indices are ignored.
func (m *Model) SelectItem(index int) {
	if index < 0 || index >= len(m.results) {
		return
	}
	rec := m.results[index]
	m.debouncer.Cancel()
	m.seq++
	m.query = rec.DisplayText()
	m.selected = &rec
	m.dropdownVisible = false
	m.sync()
}

// SetFocusedIndex moves the highlight without changing visibility.
func (m *Model) SetFocusedIndex(index int) {
	if index < 0 || index >= len(m.results) {
		return
	}
	m.focusedIndex = index
	m.sync()
}

// ShowDropdown opens the dropdown only when there is something to show.
func (m *Model) ShowDropdown(visible bool) {
	m.dropdownVisible = visible && len(m.results) > 0
	m.sync()
}

// Focus gives the input focus, which also opens the dropdown when results exist.
func (m *Model) Focus() tea.Cmd {
	if m.input.Focused() {
		return nil
	}
	return m.input.Focus()
}

// Blur removes input focus and closes the dropdown.
func (m *Model) Blur() tea.Cmd {
	if !m.input.Focused() {
		return nil
	}
	return m.input.Blur()
}

// Settle runs a pending debounced search immediately and applies its result
// in place. It is meant for non-interactive rendering where no event loop
// delivers the debounce and search messages.
func (m *Model) Settle() {
	text, ok := m.debouncer.Flush()
	if !ok {
		return
	}
	cmd := m.ExecuteSearch(text)
	if cmd == nil {
		return
	}
	if res, ok := cmd().(SearchResultMsg); ok {
		m.applyResult(res)
	}
}

// ComboboxAttrs are the accessibility attributes of the input.
func (m *Model) ComboboxAttrs() map[string]string {
	return map[string]string{
		"role":                  "combobox",
		"aria-owns":             m.listboxID,
		"aria-activedescendant": ItemID(m.focusedIndex),
		"aria-expanded":         strconv.FormatBool(m.dropdownVisible),
	}
}

// InputAttrs returns every attribute of the input, including ComboboxAttrs.
func (m *Model) InputAttrs() map[string]string {
	return m.input.Attrs()
}

// HTML renders the dropdown as listbox markup.
func (m *Model) HTML() (string, error) {
	return RenderHTML(m.listboxID, m.Rows(), m.dropdownVisible)
}

// sync writes the bound value and combobox attributes back into the input.
func (m *Model) sync() {
	m.input.SetValue(m.query)
	for k, v := range m.ComboboxAttrs() {
		m.input.SetAttr(k, v)
	}
}

// Update handles debounce, search, key, focus and mouse messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	return m, m.handle(msg)
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounce.FireMsg:
		if !m.debouncer.Accept(msg) {
			return nil
		}
		return m.ExecuteSearch(msg.Value)

	case SearchResultMsg:
		if msg.Owner == m.inputID {
			m.applyResult(msg)
		}
		return nil

	case tea.FocusMsg:
		return m.Focus()

	case tea.BlurMsg:
		return m.Blur()

	case tea.MouseClickMsg:
		return m.handleClick(msg.Mouse())

	case tea.MouseMotionMsg:
		m.handleMotion(msg.Mouse())
		return nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if m.input.Focused() {
				return m.Blur()
			}
			return m.Focus()
		case "esc":
			m.dropdownVisible = false
			m.sync()
			return nil
		}
		if !m.input.Focused() {
			return nil
		}
		cmd := m.input.Update(msg)
		m.sync()
		return cmd
	}

	cmd := m.input.Update(msg)
	m.sync()
	return cmd
}

// rowAt maps a screen row to a visible dropdown row index, or -1.
func (m *Model) rowAt(y int) int {
	if !m.dropdownVisible {
		return -1
	}
	i := y - m.Top - 1
	if i < 0 || i >= len(m.results) {
		return -1
	}
	return i
}

func (m *Model) handleClick(mouse tea.Mouse) tea.Cmd {
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	if mouse.Y == m.Top {
		cmd := m.Focus()
		m.ShowDropdown(true)
		return cmd
	}
	if i := m.rowAt(mouse.Y); i >= 0 {
		m.SelectItem(i)
		return nil
	}
	return m.Blur()
}

func (m *Model) handleMotion(mouse tea.Mouse) {
	if i := m.rowAt(mouse.Y); i >= 0 {
		m.SetFocusedIndex(i)
	}
}

// View draws the input line followed by the dropdown when it is open.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Input.Render(m.input.View()))
	if !m.dropdownVisible {
		return b.String()
	}
	b.WriteString("\n")
	if len(m.results) == 0 {
		b.WriteString(RenderEmpty(m.styles, m.width))
		return b.String()
	}
	b.WriteString(RenderList(m.Rows(), m.styles, m.width))
	return b.String()
}
