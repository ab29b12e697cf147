package ui

import (
	"context"
	"sync"

	"github.com/oakwood-commons/pickup/internal/fts"
	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/internal/ui/lookup"
)

func manDocs() []place.Record {
	return []place.Record{
		{Name: "Manchester Airport", PlaceType: place.Airport, IATA: "MAN", Region: "Greater Manchester", Country: "United Kingdom", PlaceKey: "1472187", BookingID: "airport-38566"},
		{Name: "Manchester", PlaceType: place.City, Region: "Greater Manchester", Country: "United Kingdom", PlaceKey: "2602512", BookingID: "city-2602512"},
		{Name: "Ronaldsway Airport", PlaceType: place.Airport, IATA: "IOM", Country: "Isle of Man", PlaceKey: "1472190", BookingID: "airport-38573"},
	}
}

type fakeSearcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) (*fts.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	docs := []place.Record{}
	if query == "Man" {
		docs = manDocs()
	}
	return &fts.Response{Query: query, Docs: docs, NumFound: len(docs)}, nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// newTestModel returns a focused, colorless search box with debounce off.
func newTestModel(s fts.Searcher) *Model {
	m := NewModel(context.Background(), Config{
		Lookup:  lookup.Config{Searcher: s, Placeholder: "city, airport, station, region and district..."},
		NoColor: true,
	})
	m.Lookup.Focus()
	return m
}
