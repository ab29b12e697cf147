package lookup

import (
	"context"
	"errors"
	"sync"

	"github.com/oakwood-commons/pickup/internal/fts"
	"github.com/oakwood-commons/pickup/internal/place"
)

func manDocs() []place.Record {
	return []place.Record{
		{Name: "Manchester Airport", PlaceType: place.Airport, IATA: "MAN", Region: "Greater Manchester", Country: "United Kingdom", PlaceKey: "1472187", BookingID: "airport-38566"},
		{Name: "Manchester", PlaceType: place.City, Region: "Greater Manchester", Country: "United Kingdom", PlaceKey: "2602512", BookingID: "city-2602512"},
		{Name: "Manchester - Piccadilly Train Station", PlaceType: place.Station, Region: "Greater Manchester", Country: "United Kingdom", PlaceKey: "1472375", BookingID: "station-164236"},
		{Name: "Ronaldsway Airport", PlaceType: place.Airport, IATA: "IOM", Country: "Isle of Man", PlaceKey: "1472190", BookingID: "airport-38573"},
	}
}

var errBoom = errors.New("boom")

// fakeSearcher answers from a canned table and records every call.
type fakeSearcher struct {
	mu          sync.Mutex
	calls       []string
	hadDeadline []bool
	responses   map[string][]place.Record
	err         error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{responses: map[string][]place.Record{
		"Man":  manDocs(),
		"Manc": manDocs()[:3],
	}}
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*fts.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := ctx.Deadline()
	f.calls = append(f.calls, query)
	f.hadDeadline = append(f.hadDeadline, ok)
	if f.err != nil {
		return nil, f.err
	}
	docs := f.responses[query]
	if docs == nil {
		docs = []place.Record{}
	}
	return &fts.Response{Query: query, Docs: docs, NumFound: len(docs)}, nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
