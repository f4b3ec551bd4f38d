// Public domain.

// Package timefilter narrows observations to an inclusive date window.
package timefilter

import (
	"fmt"
	"time"

	"github.com/swiftarchive/obsselect/internal/archive"
	"github.com/swiftarchive/obsselect/internal/catalog"
)

// Window is an inclusive day/month/year date window.  An empty bound is
// absent.
type Window struct {
	Start, End string
}

// Active reports whether either bound is present.
func (w Window) Active() bool {
	return w.Start != "" || w.End != ""
}

func (w Window) String() string {
	s, e := w.Start, w.End
	if s == "" {
		s = "*"
	}
	if e == "" {
		e = "*"
	}
	return s + " - " + e
}

// BoundError reports a window bound that does not parse.
type BoundError struct {
	Bound string // "start" or "end"
	Err   error  // *archive.DateFormatError
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s bound: %v", e.Bound, e.Err)
}

func (e *BoundError) Unwrap() error { return e.Err }

// Mask returns true for each date in [start, end], either bound optional.
//
// A nil start or end is absent.  Dates that failed to parse (errs[i] !=
// nil) never match while a bound is present.  With neither bound, every
// element is true.
func Mask(dates []time.Time, errs []error, start, end *time.Time) []bool {
	mask := make([]bool, len(dates))
	for i, d := range dates {
		switch {
		case start == nil && end == nil:
			mask[i] = true
		case errs != nil && errs[i] != nil:
		case start != nil && d.Before(*start):
		case end != nil && d.After(*end):
		default:
			mask[i] = true
		}
	}
	return mask
}

// ParseWindow parses the bounds of w.  Absent bounds return nil.
//
// Errors are *BoundError.
func ParseWindow(w Window) (start, end *time.Time, err error) {
	if w.Start != "" {
		t, err := archive.ParseDate(w.Start)
		if err != nil {
			return nil, nil, &BoundError{Bound: "start", Err: err}
		}
		start = &t
	}
	if w.End != "" {
		t, err := archive.ParseDate(w.End)
		if err != nil {
			return nil, nil, &BoundError{Bound: "end", Err: err}
		}
		end = &t
	}
	return start, end, nil
}

// Filter returns the records of t with START_TIME in w.
//
// If a bound of w does not parse, t is returned unchanged along with a
// *BoundError; the caller reports it and carries on with the unfiltered
// table.  A window with no bounds returns t.
func Filter(t *catalog.Table, w Window) (*catalog.Table, error) {
	if !w.Active() {
		return t, nil
	}
	start, end, err := ParseWindow(w)
	if err != nil {
		return t, err
	}
	dates := make([]time.Time, t.Len())
	errs := make([]error, t.Len())
	for i := range t.Records {
		dates[i] = t.Records[i].Start
		errs[i] = t.Records[i].DateErr
	}
	return t.Subset(Mask(dates, errs, start, end)), nil
}
