package formatter

import (
	"fmt"
	"strings"
)

// Field is one labelled value of a list entry.
type Field struct {
	Key   string
	Value string
}

// Entry is one record rendered as a block of fields.
type Entry struct {
	Fields []Field
}

// ListOptions controls list output formatting.
type ListOptions struct {
	NoColor    bool   // disable color output
	ArrayStyle string // entry header style: index, numbered, none
}

// FormatAsList renders each entry under an index header with its fields
// indented below. Empty values are skipped.
func FormatAsList(entries []Entry, opts ListOptions) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if header := FormatArrayIndex(i, opts.ArrayStyle); header != "" {
			b.WriteString(paint(styles.header, header, opts.NoColor) + "\n")
		}

		keyWidth := 0
		for _, f := range e.Fields {
			keyWidth = max(keyWidth, len(f.Key))
		}
		for _, f := range e.Fields {
			if f.Value == "" {
				continue
			}
			key := "  " + padRight(f.Key+":", keyWidth+1)
			b.WriteString(paint(styles.key, key, opts.NoColor) + " " + paint(styles.value, f.Value, opts.NoColor) + "\n")
		}
	}
	return b.String()
}

// FormatArrayIndex returns the header for entry i in the given style.
func FormatArrayIndex(i int, style string) string {
	switch style {
	case "index":
		return fmt.Sprintf("[%d]", i)
	case "none":
		return ""
	default:
		return fmt.Sprintf("%d.", i+1)
	}
}
