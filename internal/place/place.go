// Package place models the location records returned by the rentalcars
// full-text search endpoint and composes the text shown for them.
package place

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
)

// Type is the single-letter place type code sent by the search endpoint.
type Type string

const (
	Airport  Type = "A"
	City     Type = "C"
	Region   Type = "R"
	District Type = "D"
	Station  Type = "T"
	General  Type = "G"
	Port     Type = "P"
)

var typeLabels = map[Type]string{
	Airport:  "Airport",
	City:     "City",
	Region:   "Region",
	District: "District",
	Station:  "Station",
	General:  "Place",
	Port:     "Port",
}

// Label returns the human readable indicator for the type, or "" when the
// code is empty or unknown.
func (t Type) Label() string {
	return typeLabels[t]
}

// ID is an identifier the endpoint sends either as a JSON string or a number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		*id = ID(data)
	}
	return nil
}

// Record is one document of a search response. Records are decoded verbatim
// and never modified afterwards.
type Record struct {
	Name       string  `json:"name" yaml:"name" toml:"name"`
	PlaceType  Type    `json:"placeType" yaml:"placeType" toml:"placeType"`
	IATA       string  `json:"iata,omitempty" yaml:"iata,omitempty" toml:"iata,omitempty"`
	City       string  `json:"city,omitempty" yaml:"city,omitempty" toml:"city,omitempty"`
	Region     string  `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	Country    string  `json:"country,omitempty" yaml:"country,omitempty" toml:"country,omitempty"`
	CountryISO string  `json:"countryIso,omitempty" yaml:"countryIso,omitempty" toml:"countryIso,omitempty"`
	Lat        float64 `json:"lat,omitempty" yaml:"lat,omitempty" toml:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty" yaml:"lng,omitempty" toml:"lng,omitempty"`
	Lang       string  `json:"lang,omitempty" yaml:"lang,omitempty" toml:"lang,omitempty"`
	LocationID ID      `json:"locationId,omitempty" yaml:"locationId,omitempty" toml:"locationId,omitempty"`
	PlaceKey   ID      `json:"placeKey" yaml:"placeKey" toml:"placeKey"`
	BookingID  ID      `json:"bookingId" yaml:"bookingId" toml:"bookingId"`
}

// Key is the list identity of the record.
func (r Record) Key() string {
	return string(r.PlaceKey) + "-" + string(r.BookingID)
}

// TitleLine is "name (IATA)" when an IATA code is present, otherwise the name.
func (r Record) TitleLine() string {
	if r.IATA != "" {
		return r.Name + " (" + r.IATA + ")"
	}
	return r.Name
}

// LocationLine joins region and country, skipping whichever is missing.
func (r Record) LocationLine() string {
	parts := make([]string, 0, 2)
	if r.Region != "" {
		parts = append(parts, r.Region)
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}

// DisplayText is the text written back into the input when the record is selected.
func (r Record) DisplayText() string {
	text := r.TitleLine()
	if loc := r.LocationLine(); loc != "" {
		text += ", " + loc
	}
	return text
}
