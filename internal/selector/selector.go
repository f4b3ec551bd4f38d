// Public domain.

// Package selector runs the observation selection pipeline: cone search
// over the master table, optional date window, archive path derivation,
// and writing of the two outputs.
package selector

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/swiftarchive/obsselect/internal/catalog"
	"github.com/swiftarchive/obsselect/internal/cone"
	"github.com/swiftarchive/obsselect/internal/timefilter"
)

// DefaultRadius is the search radius used when none is given, 12'.
var DefaultRadius = unit.AngleFromMin(12)

// Params are the query parameters of one selection.
type Params struct {
	Center cone.Position
	Radius unit.Angle
	Window timefilter.Window // zero value: no date filtering
}

// Outputs name the destinations of a run.
type Outputs struct {
	Table       string // filtered table
	ArchiveList string // archive address list
}

// Result is the outcome of a selection.  Paths parallels Table.Records;
// an empty string marks a record without an archive path.
type Result struct {
	Table *catalog.Table
	Paths []string
}

// Len returns the number of selected observations.
func (r *Result) Len() int { return r.Table.Len() }

// OutputPathError reports an output whose parent directory is absent.
type OutputPathError struct {
	Path string
	Dir  string
}

func (e *OutputPathError) Error() string {
	return fmt.Sprintf("directory %s for %s does not exist", e.Dir, e.Path)
}

// ErrRadius is returned for a radius that is not positive.
var ErrRadius = errors.New("search radius must be positive")

// Selector selects observations.  It holds no state between calls.
type Selector struct {
	logger *slog.Logger
}

// New creates a Selector reporting through logger.
func New(logger *slog.Logger) *Selector {
	return &Selector{logger: logger}
}

// Select filters t by p.
//
// Records failing the cone search are dropped, then, if p.Window has a
// bound, records outside the window.  A malformed window bound is logged
// and leaves the cone search result unfiltered by date.  Each surviving
// record gets an archive path; records whose date or id does not parse get
// an empty path and a warning.  t is not modified.
func (s *Selector) Select(t *catalog.Table, p Params) (*Result, error) {
	if !(p.Radius > 0) {
		return nil, ErrRadius
	}
	for i := range t.Records {
		if r := &t.Records[i]; r.NoPosition {
			s.logger.Warn("observation has no position, not selected",
				"line", r.Line, "obsid", r.ObsIDText)
		}
	}
	mask, err := cone.Search(p.Center, p.Radius, t.RA(), t.Dec())
	if err != nil {
		return nil, err
	}
	sel := t.Subset(mask)

	if p.Window.Active() {
		filtered, err := timefilter.Filter(sel, p.Window)
		if err != nil {
			s.logger.Warn("time window not understood, observations not filtered by date",
				"window", p.Window.String(), "error", err)
		}
		sel = filtered
	}

	paths := make([]string, sel.Len())
	for i := range sel.Records {
		r := &sel.Records[i]
		path, err := r.ArchivePath()
		if err != nil {
			s.logger.Warn("no archive path for observation",
				"line", r.Line, "obsid", r.ObsIDText, "date", r.StartTime, "error", err)
			continue
		}
		paths[i] = path
	}
	return &Result{Table: sel, Paths: paths}, nil
}

// Run loads the master table at catalogPath, selects by p and writes the
// outputs.
//
// A missing output directory is logged as an OutputPathError and the write
// is attempted anyway.  Load and write failures are returned.
func (s *Selector) Run(catalogPath string, p Params, out Outputs) (*Result, error) {
	s.logger.Info("searching master table", "path", catalogPath)
	s.logger.Info("searching observations around position",
		"ra", p.Center.RA, "dec", p.Center.Dec,
		"sexagesimal", fmt.Sprintf("%.2s %+.1s",
			sexa.FmtRA(unit.RAFromDeg(p.Center.RA)),
			sexa.FmtAngle(unit.AngleFromDeg(p.Center.Dec))))
	s.logger.Info("search radius", "arcmin", p.Radius.Min())

	t, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	res, err := s.Select(t, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("observations found", "count", res.Len())
	if res.Len() > 0 {
		s.logger.Info("observation addresses", "addresses", res.Paths)
	}

	s.checkOutputDir(out.Table)
	if err := catalog.WriteTable(out.Table, res.Table); err != nil {
		return nil, fmt.Errorf("write filtered table: %w", err)
	}
	s.checkOutputDir(out.ArchiveList)
	if err := catalog.WriteArchiveList(out.ArchiveList, res.Paths); err != nil {
		return nil, fmt.Errorf("write archive address list: %w", err)
	}
	s.logger.Info("filtered table written", "path", out.Table,
		"archive_list", out.ArchiveList)
	return res, nil
}

// CheckOutputDir returns an *OutputPathError if the directory that would
// hold path does not exist.
func CheckOutputDir(path string) error {
	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return &OutputPathError{Path: path, Dir: dir}
	}
	return nil
}

func (s *Selector) checkOutputDir(path string) {
	if err := CheckOutputDir(path); err != nil {
		s.logger.Warn("output directory needs to be created", "error", err)
	}
}
