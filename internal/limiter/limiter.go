// Package limiter selects a window of records for `pickup search`
// (--limit, --offset and --tail).
package limiter

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Config is a record window. Zero fields are disabled. Tail takes the last
// N records and ignores Offset; it cannot be combined with Limit.
type Config struct {
	Limit  int
	Offset int
	Tail   int
}

// Validate reports every negative field and a Limit/Tail conflict.
func (c Config) Validate() error {
	var errs *multierror.Error
	for _, f := range []struct {
		flag string
		n    int
	}{{"--limit", c.Limit}, {"--offset", c.Offset}, {"--tail", c.Tail}} {
		if f.n < 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s must be non-negative, got %d", f.flag, f.n))
		}
	}
	if c.Limit > 0 && c.Tail > 0 {
		errs = multierror.Append(errs, errors.New("--limit and --tail are mutually exclusive"))
	}
	return errs.ErrorOrNil()
}

// IsActive reports whether any field narrows the window.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Bounds returns the half-open range [start, end) of a list of n records.
func (c Config) Bounds(n int) (start, end int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(max(c.Offset, 0), n)
	if c.Limit > 0 {
		return start, min(start+c.Limit, n)
	}
	return start, n
}

// Apply returns the records selected by c, sharing items' backing array.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Bounds(len(items))
	return items[start:end]
}
