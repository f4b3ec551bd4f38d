// Public domain.

// Package archive derives archive storage paths of the form
// YYYY_MM/OOOOOOOOOOO from observation start dates and identifiers.
package archive

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day/month/year layout of START_TIME and of window
// bounds.  Single digit day and month are accepted, the year must have
// four digits.
const DateLayout = "2/1/2006"

// MaxObsID is the largest identifier that fits in the 11 digit field.
const MaxObsID = 99999999999

// DateFormatError reports a date string not in day/month/year form.
type DateFormatError struct {
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date %q not in day/month/year format: %v", e.Value, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// IdentifierFormatError reports an observation id that cannot be coerced
// to a non-negative integer of at most 11 digits.
type IdentifierFormatError struct {
	Value string
	Err   error
}

func (e *IdentifierFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid observation id %q", e.Value)
	}
	return fmt.Sprintf("invalid observation id %q: %v", e.Value, e.Err)
}

func (e *IdentifierFormatError) Unwrap() error { return e.Err }

// ParseDate parses a day/month/year date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &DateFormatError{Value: s, Err: err}
	}
	return t, nil
}

// ParseObsID coerces id to an observation identifier.
//
// Accepted are signed and unsigned integer types and strings holding
// either an integer or a float with integral value, such as "49650001.0".
func ParseObsID(id interface{}) (int64, error) {
	var n int64
	switch v := id.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > MaxObsID {
			return 0, &IdentifierFormatError{Value: strconv.FormatUint(uint64(v), 10)}
		}
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > MaxObsID {
			return 0, &IdentifierFormatError{Value: strconv.FormatUint(v, 10)}
		}
		n = int64(v)
	case string:
		var err error
		if n, err = parseIDString(v); err != nil {
			return 0, err
		}
	default:
		return 0, &IdentifierFormatError{Value: fmt.Sprint(id),
			Err: fmt.Errorf("unsupported type %T", id)}
	}
	if n < 0 || n > MaxObsID {
		return 0, &IdentifierFormatError{Value: strconv.FormatInt(n, 10)}
	}
	return n, nil
}

func parseIDString(s string) (int64, error) {
	ts := strings.TrimSpace(s)
	n, err := strconv.ParseInt(ts, 10, 64)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(ts, 64)
	if ferr != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) ||
		f < 0 || f > MaxObsID {
		return 0, &IdentifierFormatError{Value: s, Err: err}
	}
	return int64(f), nil
}

// Format builds the archive path for an already parsed date and id.
func Format(date time.Time, obsID int64) string {
	return fmt.Sprintf("%04d_%02d/%011d", date.Year(), int(date.Month()), obsID)
}

// Path builds the archive path for a day/month/year date string and an
// observation id given as integer or string.
//
// Errors are *DateFormatError or *IdentifierFormatError.
func Path(date string, obsID interface{}) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	id, err := ParseObsID(obsID)
	if err != nil {
		return "", err
	}
	return Format(t, id), nil
}
