package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// namedKeys maps the lower-cased inside of a <Key> token to its key press.
var namedKeys = map[string]tea.KeyPressMsg{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"s-tab":     {Code: tea.KeyTab, Mod: tea.ModShift},
	"space":     {Code: ' ', Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
}

// ApplyStartupKeys feeds simulated key presses to m. Each entry mixes literal
// text with <Key> tokens, e.g. "Man<Down><CR>"; an entry starting with a
// backslash is typed verbatim. Pending searches settle before every named
// key and once at the end, so "<Down><CR>" acts on the results of the text
// typed before it.
func ApplyStartupKeys(m *Model, keys []string) {
	if m == nil || len(keys) == 0 {
		return
	}
	for _, raw := range keys {
		entry := strings.TrimSpace(raw)
		if literal, ok := strings.CutPrefix(entry, `\`); ok {
			typeText(m, literal)
			continue
		}
		for _, seg := range parseTokenSegments(entry) {
			msgs, ok := keyMsgsFromToken(seg.text)
			if !seg.isVimKey || !ok {
				typeText(m, seg.text)
				continue
			}
			for _, msg := range msgs {
				m.Lookup.Settle()
				m.Update(msg)
			}
		}
	}
	m.Lookup.Settle()
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "Man<Down>" into "Man" and "<Down>". An unclosed
// "<" and everything after it is literal text.
func parseTokenSegments(token string) []tokenSegment {
	var segs []tokenSegment
	for token != "" {
		open := strings.IndexByte(token, '<')
		if open < 0 {
			return append(segs, tokenSegment{text: token})
		}
		if open > 0 {
			segs = append(segs, tokenSegment{text: token[:open]})
			token = token[open:]
		}
		end := strings.IndexByte(token, '>')
		if end < 0 {
			return append(segs, tokenSegment{text: token})
		}
		segs = append(segs, tokenSegment{text: token[:end+1], isVimKey: true})
		token = token[end+1:]
	}
	return segs
}

// keyMsgsFromToken resolves a <Key> token such as <CR>, <S-Tab> or <C-n>.
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	inner, ok := strings.CutPrefix(token, "<")
	if !ok {
		return nil, false
	}
	if inner, ok = strings.CutSuffix(inner, ">"); !ok {
		return nil, false
	}
	inner = strings.ToLower(inner)
	if msg, ok := namedKeys[inner]; ok {
		return []tea.KeyPressMsg{msg}, true
	}
	if letter, ok := strings.CutPrefix(inner, "c-"); ok && len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
		return []tea.KeyPressMsg{{Code: rune(letter[0]), Mod: tea.ModCtrl}}, true
	}
	return nil, false
}
