package formatter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ColumnarOptions configures columnar table rendering.
type ColumnarOptions struct {
	NoColor bool

	// TotalWidth is the width to fit into. Zero means the terminal width.
	TotalWidth int

	// RowNumberStyle is "numbered" (1, 2, 3; the default), "index"
	// ([0], [1], [2]) or "none".
	RowNumberStyle string

	HiddenColumns []string
	RightAlign    []string
}

const (
	sepWidth    = 2
	minColWidth = 3
	maxColWidth = 40
)

var columnSep = strings.Repeat(" ", sepWidth)

// RenderColumnarTable renders rows under a header of column names followed by
// a rule. Columns shrink to fit TotalWidth; cells that do not fit end in "...".
func RenderColumnarTable(columns []string, rows [][]string, opts ColumnarOptions) string {
	if len(rows) == 0 {
		return ""
	}
	cols, rows := dropColumns(columns, rows, opts.HiddenColumns)
	if len(cols) == 0 {
		return ""
	}

	total := opts.TotalWidth
	if total <= 0 {
		total = TerminalWidth()
	}

	numbered := opts.RowNumberStyle != "none"
	numWidth := 0
	if numbered {
		numWidth = runewidth.StringWidth(rowLabel(len(rows)-1, opts.RowNumberStyle)) + 1
		total -= numWidth + sepWidth
	}
	widths := calculateColumnWidths(cols, rows, total)
	right := make([]bool, len(cols))
	for i, c := range cols {
		right[i] = slices.Contains(opts.RightAlign, c)
	}
	plain := opts.NoColor

	var b strings.Builder
	line := make([]string, 0, len(cols)+1)

	if numbered {
		line = append(line, paint(styles.header, padRight("#", numWidth), plain))
	}
	for i, c := range cols {
		line = append(line, paint(styles.header, padRight(c, widths[i]), plain))
	}
	b.WriteString(strings.Join(line, columnSep) + "\n")

	ruleWidth := sum(widths) + sepWidth*(len(widths)-1)
	if numbered {
		ruleWidth += numWidth + sepWidth
	}
	b.WriteString(paint(styles.separator, strings.Repeat("─", ruleWidth), plain) + "\n")

	for r, row := range rows {
		line = line[:0]
		if numbered {
			line = append(line, paint(styles.key, padRight(rowLabel(r, opts.RowNumberStyle), numWidth), plain))
		}
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			line = append(line, paint(styles.value, fit(cell, widths[i], right[i]), plain))
		}
		b.WriteString(strings.Join(line, columnSep) + "\n")
	}
	return b.String()
}

func rowLabel(i int, style string) string {
	if style == "index" {
		return "[" + strconv.Itoa(i) + "]"
	}
	return strconv.Itoa(i + 1)
}

// dropColumns removes the hidden columns from the header and every row.
func dropColumns(columns []string, rows [][]string, hidden []string) ([]string, [][]string) {
	if len(hidden) == 0 {
		return columns, rows
	}
	var keep []int
	var cols []string
	for i, c := range columns {
		if !slices.Contains(hidden, c) {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	out := make([][]string, len(rows))
	for r, row := range rows {
		out[r] = make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				out[r][j] = row[idx]
			}
		}
	}
	return cols, out
}

// calculateColumnWidths sizes each column to its widest cell. When the total
// exceeds available, columns are capped at maxColWidth and the widest is then
// narrowed one cell at a time, never below minColWidth.
func calculateColumnWidths(columns []string, rows [][]string, available int) []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	usable := available - sepWidth*(len(columns)-1)
	if usable <= 0 || sum(widths) <= usable {
		return widths
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	for sum(widths) > usable {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func sum(ws []int) int {
	n := 0
	for _, w := range ws {
		n += w
	}
	return n
}
