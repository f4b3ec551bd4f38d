// Public domain.

// Package catalog reads an observation master table and writes the
// filtered table and archive address list.
//
// The master table is ';' delimited text with a header row.  Only the
// columns RA, DEC, START_TIME and OBSID are interpreted; all other cells
// are carried through as text.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/swiftarchive/obsselect/internal/archive"
)

// Required column names.
const (
	ColRA        = "RA"
	ColDec       = "DEC"
	ColStartTime = "START_TIME"
	ColObsID     = "OBSID"
)

// RequiredColumns lists the columns a master table must have.
var RequiredColumns = []string{ColRA, ColDec, ColStartTime, ColObsID}

// Comma is the delimiter of the master table.
const Comma = ';'

// LoadError reports a master table that is missing, unreadable, or lacks
// a required column.
type LoadError struct {
	Path   string
	Column string // offending column, if any
	Line   int    // offending line, if known
	Err    error
}

func (e *LoadError) Error() string {
	s := "catalog " + e.Path
	if e.Line > 0 {
		s += fmt.Sprintf(", line %d", e.Line)
	}
	if e.Column != "" {
		s += ", column " + e.Column
	}
	return s + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrMissingColumn is wrapped by a LoadError for an absent required column.
var ErrMissingColumn = errors.New("required column missing")

// Record is one parsed row of the master table.
//
// START_TIME and OBSID are parsed at load time.  A failure there is kept
// with the record in DateErr or IDErr rather than failing the load; such
// a record simply has no archive path.
//
// A blank RA or DEC cell is read as NaN and NoPosition is set.  NaN
// coordinates never match a cone search.
type Record struct {
	Line       int     // line number in the source, header is line 1
	RA, Dec    float64 // degrees
	NoPosition bool
	StartTime  string // raw START_TIME cell
	Start      time.Time
	DateErr    error  // *archive.DateFormatError
	ObsIDText  string // raw OBSID cell
	ObsID      int64
	IDErr      error    // *archive.IdentifierFormatError
	Cells      []string // all cells in header order
}

// ArchivePath returns the archive address of r, or the error that
// prevented parsing its date or id.
func (r *Record) ArchivePath() (string, error) {
	if r.DateErr != nil {
		return "", r.DateErr
	}
	if r.IDErr != nil {
		return "", r.IDErr
	}
	return archive.Format(r.Start, r.ObsID), nil
}

// Table is an in memory master table.  Tables are not modified after
// loading; filtering produces new tables sharing records' cells.
type Table struct {
	Header  []string
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// RA returns the RA column in degrees.
func (t *Table) RA() []float64 {
	ra := make([]float64, len(t.Records))
	for i := range t.Records {
		ra[i] = t.Records[i].RA
	}
	return ra
}

// Dec returns the DEC column in degrees.
func (t *Table) Dec() []float64 {
	dec := make([]float64, len(t.Records))
	for i := range t.Records {
		dec[i] = t.Records[i].Dec
	}
	return dec
}

// Subset returns a new table of the records where mask is true.
// It panics if mask and t differ in length.
func (t *Table) Subset(mask []bool) *Table {
	if len(mask) != len(t.Records) {
		panic(fmt.Sprintf("catalog: mask length %d, table length %d",
			len(mask), len(t.Records)))
	}
	s := &Table{Header: t.Header, Records: []Record{}}
	for i, ok := range mask {
		if ok {
			s.Records = append(s.Records, t.Records[i])
		}
	}
	return s
}

// row holds the interpreted columns as text; numeric parsing is done
// here rather than by csvutil so errors can name the column.
type row struct {
	RA        string `csv:"RA"`
	Dec       string `csv:"DEC"`
	StartTime string `csv:"START_TIME"`
	ObsID     string `csv:"OBSID"`
}

// Load reads the master table at path.
//
// Errors are *LoadError.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}

// Read reads a master table from r.  Name identifies the source in errors.
func Read(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = Comma
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if err == io.EOF {
			err = errors.New("no header row")
		}
		return nil, &LoadError{Path: name, Line: 1, Err: err}
	}
	header := dec.Header()
	for _, c := range RequiredColumns {
		if !hasColumn(header, c) {
			return nil, &LoadError{Path: name, Column: c, Err: ErrMissingColumn}
		}
	}
	t := &Table{
		Header:  append([]string(nil), header...),
		Records: []Record{},
	}
	for {
		var rw row
		err := dec.Decode(&rw)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		line, _ := cr.FieldPos(0)
		rec, col, err := parseRow(rw)
		if err != nil {
			return nil, &LoadError{Path: name, Line: line, Column: col, Err: err}
		}
		rec.Line = line
		rec.Cells = append([]string(nil), dec.Record()...)
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func hasColumn(header []string, col string) bool {
	for _, h := range header {
		if h == col {
			return true
		}
	}
	return false
}

// parseRow converts the interpreted columns.  A non-numeric RA or DEC is
// an error for the whole table, returned with the column name.
func parseRow(rw row) (rec Record, col string, err error) {
	var blank bool
	if rec.RA, blank, err = parseCoord(rw.RA); err != nil {
		return rec, ColRA, err
	}
	rec.NoPosition = blank
	if rec.Dec, blank, err = parseCoord(rw.Dec); err != nil {
		return rec, ColDec, err
	}
	rec.NoPosition = rec.NoPosition || blank
	rec.StartTime = rw.StartTime
	rec.ObsIDText = rw.ObsID
	rec.Start, rec.DateErr = archive.ParseDate(rw.StartTime)
	rec.ObsID, rec.IDErr = archive.ParseObsID(rw.ObsID)
	return rec, "", nil
}

func parseCoord(s string) (v float64, blank bool, err error) {
	ts := strings.TrimSpace(s)
	if ts == "" {
		return math.NaN(), true, nil
	}
	v, err = strconv.ParseFloat(ts, 64)
	return v, false, err
}
