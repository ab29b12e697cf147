package formatter

import (
	"github.com/oakwood-commons/pickup/internal/place"
)

// PlaceColumns are the table columns for place records.
var PlaceColumns = []string{"TYPE", "NAME", "IATA", "REGION", "COUNTRY", "BOOKING ID"}

// PlaceTable converts records into table rows matching PlaceColumns.
func PlaceTable(recs []place.Record) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.PlaceType.Label(),
			r.Name,
			r.IATA,
			r.Region,
			r.Country,
			string(r.BookingID),
		})
	}
	return rows
}

// PlaceEntries converts records into list entries, leading with the text a
// selection would write into the lookup input.
func PlaceEntries(recs []place.Record) []Entry {
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{Fields: []Field{
			{"display", r.DisplayText()},
			{"type", r.PlaceType.Label()},
			{"name", r.Name},
			{"iata", r.IATA},
			{"city", r.City},
			{"region", r.Region},
			{"country", r.Country},
			{"placeKey", string(r.PlaceKey)},
			{"bookingId", string(r.BookingID)},
		}})
	}
	return entries
}

// Document is the serialized shape of one-shot search output. TOML needs a
// table at the top level, so records are nested under "results".
type Document struct {
	Query   string         `json:"query" yaml:"query" toml:"query"`
	Found   int            `json:"numFound" yaml:"numFound" toml:"numFound"`
	Results []place.Record `json:"results" yaml:"results" toml:"results"`
}
