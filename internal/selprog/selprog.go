// Public domain.

// Package selprog implements the obsselect command.
package selprog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"

	"github.com/swiftarchive/obsselect/internal/config"
	"github.com/swiftarchive/obsselect/internal/cone"
	"github.com/swiftarchive/obsselect/internal/logging"
	"github.com/swiftarchive/obsselect/internal/resolve"
	"github.com/swiftarchive/obsselect/internal/selector"
	"github.com/swiftarchive/obsselect/internal/timefilter"
)

// ExitUnresolved is the exit status when --object names an object with no
// known position.
const ExitUnresolved = 2

// Resolver looks up the position of a named object.
type Resolver interface {
	Resolve(ctx context.Context, name string) (cone.Position, error)
}

func Main() {
	defer exit.Handler()

	cfg, err := config.Load()
	if err != nil {
		exit.Log(err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	res := resolve.NewClient(cfg.ResolverURL, cfg.ResolverTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = NewCommand(cfg, logger, res).ExecuteContext(ctx)
	var nre *resolve.NameResolutionError
	switch {
	case err == nil:
	case errors.As(err, &nre):
		fmt.Fprintf(os.Stderr, "\nERROR: Object '%s' not resolved.\n\n", nre.Name)
		if nre.Err != nil {
			logger.Error("name resolution failed", "object", nre.Name, "error", nre.Err)
		}
		exit.Code(ExitUnresolved)
	default:
		exit.Log(err)
	}
}

type options struct {
	position    string
	object      string
	radius      float64 // arcmin
	start, end  string
	archiveList string
}

// NewCommand builds the obsselect command.  Errors are returned from
// Execute, not printed.
func NewCommand(cfg *config.Config, logger *slog.Logger, res Resolver) *cobra.Command {
	var opt options
	cmd := &cobra.Command{
		Use:   "obsselect [flags] <table_in> <table_out>",
		Short: "Conesearch observations from the Swift master table",
		Long: `Obsselect selects observations of the Swift master table within a radius
of a sky position, optionally within a date window, writes them to
<table_out> and writes the archive address (YYYY_MM/OBSID) of each to the
archive address list.

The master table is ';' delimited with a header row and must have columns
RA, DEC (degrees), START_TIME (dd/mm/yyyy) and OBSID.

The position is given either as --position RA,Dec in degrees or as
--object NAME, resolved through the Sesame name resolver.`,
		Example: `  obsselect --position 194.04,-5.789 master.csv 3c279.csv
  obsselect --object 3c279 --radius 6 --start 01/01/2013 master.csv 3c279.csv`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), logger, res, opt, args[0], args[1])
		},
	}
	f := cmd.Flags()
	f.StringVar(&opt.position, "position", "", `(RA,Dec) coordinates in degrees, e.g. "194.04,-5.789"`)
	f.StringVar(&opt.object, "object", "", `object name, e.g. "3c279"`)
	f.Float64Var(&opt.radius, "radius", cfg.Radius, "search radius in arcmin")
	f.StringVar(&opt.start, "start", "", "start date (dd/mm/yyyy) to select observations")
	f.StringVar(&opt.end, "end", "", "end date (dd/mm/yyyy) to select observations")
	f.StringVar(&opt.archiveList, "archive_addr_list", cfg.ArchiveList,
		"list of archive addresses (DATE/OBSID) of the selected observations")
	cmd.MarkFlagsMutuallyExclusive("position", "object")
	cmd.MarkFlagsOneRequired("position", "object")
	return cmd
}

func run(ctx context.Context, logger *slog.Logger, res Resolver, opt options, tableIn, tableOut string) error {
	var center cone.Position
	var err error
	if opt.object != "" {
		if center, err = res.Resolve(ctx, opt.object); err != nil {
			return err
		}
		logger.Info("object resolved", "object", opt.object, "ra", center.RA, "dec", center.Dec)
	} else if center, err = ParsePosition(opt.position); err != nil {
		return err
	}
	if !(opt.radius > 0) {
		return fmt.Errorf("invalid --radius %g: must be positive", opt.radius)
	}
	p := selector.Params{
		Center: center,
		Radius: unit.AngleFromMin(opt.radius),
		Window: timefilter.Window{
			Start: strings.TrimSpace(opt.start),
			End:   strings.TrimSpace(opt.end),
		},
	}
	_, err = selector.New(logger).Run(tableIn, p, selector.Outputs{
		Table:       tableOut,
		ArchiveList: opt.archiveList,
	})
	return err
}

// ParsePosition parses "RA,Dec" in degrees.  RA must be in [0,360) and
// Dec in [-90,90].
func ParsePosition(s string) (cone.Position, error) {
	f := strings.Split(s, ",")
	if len(f) != 2 {
		return cone.Position{}, fmt.Errorf("invalid --position %q: want RA,Dec", s)
	}
	ra, err := strconv.ParseFloat(strings.TrimSpace(f[0]), 64)
	if err != nil {
		return cone.Position{}, fmt.Errorf("invalid --position %q: RA: %w", s, err)
	}
	dec, err := strconv.ParseFloat(strings.TrimSpace(f[1]), 64)
	if err != nil {
		return cone.Position{}, fmt.Errorf("invalid --position %q: Dec: %w", s, err)
	}
	if !(ra >= 0 && ra < 360) {
		return cone.Position{}, fmt.Errorf("invalid --position %q: RA not in [0,360)", s)
	}
	if !(dec >= -90 && dec <= 90) {
		return cone.Position{}, fmt.Errorf("invalid --position %q: Dec not in [-90,90]", s)
	}
	return cone.Position{RA: ra, Dec: dec}, nil
}
