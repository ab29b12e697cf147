package lookup

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/oakwood-commons/pickup/internal/place"
)

// Segments splits a title around the highlighted match.
type Segments struct {
	Prefix string
	Match  string
	Suffix string
}

// Text joins the segments back into the title.
func (s Segments) Text() string {
	return s.Prefix + s.Match + s.Suffix
}

// Row is the presentation of one result in the dropdown.
type Row struct {
	ID           string
	Key          string
	Focused      bool
	AriaSelected bool
	PlaceType    place.Type
	Indicator    string
	Title        Segments
	Location     string
}

// Render maps results to rows. It is pure: the same inputs always give the
// same rows, one per result, in order.
func Render(results []place.Record, focusedIndex int, query string) []Row {
	rows := make([]Row, 0, len(results))
	for i, rec := range results {
		focused := i == focusedIndex
		rows = append(rows, Row{
			ID:           ItemID(i),
			Key:          rec.Key(),
			Focused:      focused,
			AriaSelected: focused,
			PlaceType:    rec.PlaceType,
			Indicator:    rec.PlaceType.Label(),
			Title:        Highlight(rec.TitleLine(), query),
			Location:     rec.LocationLine(),
		})
	}
	return rows
}

// ItemID is the element id of the row at index i.
func ItemID(i int) string {
	return fmt.Sprintf("item-%d", i)
}

// Highlight finds the first case-insensitive occurrence of query in text.
// The returned segments keep text's original case. An empty query or no
// occurrence leaves the whole text in Prefix.
func Highlight(text, query string) Segments {
	if query == "" {
		return Segments{Prefix: text}
	}
	src := []rune(text)
	needle := foldRunes([]rune(query))
	hay := foldRunes(src)

	idx := indexRunes(hay, needle)
	if idx < 0 {
		return Segments{Prefix: text}
	}
	end := idx + len(needle)
	return Segments{
		Prefix: string(src[:idx]),
		Match:  string(src[idx:end]),
		Suffix: string(src[end:]),
	}
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(hay, needle []rune) int {
	if len(needle) > len(hay) {
		return -1
	}
	h := string(hay)
	i := strings.Index(h, string(needle))
	if i < 0 {
		return -1
	}
	return len([]rune(h[:i]))
}
