/*
Command obsselect selects observations from the Swift master table that lie
within a radius of a sky position and, optionally, within a date window.
For each selected observation it derives the address of the observation in
the Swift archive.

Contents

  Program overview
  Command line usage
  Configuration
  File formats
  Exit status


Program overview

Input is the Swift master table, a ';' delimited text file with a header
row.  Output is the subset of the table around the requested position and
a list of archive addresses, one for each selected observation.

Sample run:

Given master.csv,

  OBSID;RA;DEC;START_TIME;TARGET_NAME
  49650001;194.04;-5.789;26/06/2013;3C279
  00000001;0;0;01/01/2020;FIELD
  49650002;194.05;-5.79;27/06/2013;3C279

the command

  obsselect --position 194.04,-5.789 master.csv 3c279.csv

writes the first and last rows, comma delimited, to 3c279.csv and writes
archive_addr_list.txt,

  archive_addr
  2013_06/00049650001
  2013_06/00049650002

Adding --start 27/06/2013 keeps only the last row.

Separations are great circle distances, so searches near the celestial
poles and across RA 0h behave as expected.  An observation is selected if
its separation from the position is strictly less than the radius.


Command line usage

  obsselect [flags] <table_in> <table_out>

  Flags:
       --position RA,Dec        position in degrees, e.g. 194.04,-5.789
       --object NAME            object name, e.g. 3c279
       --radius ARCMIN          search radius in arc minutes (default 12)
       --start dd/mm/yyyy       earliest START_TIME selected
       --end dd/mm/yyyy         latest START_TIME selected
       --archive_addr_list FILE archive address list
                                (default archive_addr_list.txt)

Exactly one of --position and --object is required.  Object names are
resolved to ICRS positions with the CDS Sesame service.

Both date bounds are inclusive and either may be omitted.  A bound that is
not in dd/mm/yyyy form is reported and ignored, the selection is then not
filtered by date.


Configuration

Defaults can be changed through environment variables, which may also be
placed in a file .env in the working directory.

  OBSSELECT_RADIUS            default search radius, arcmin (12)
  OBSSELECT_ARCHIVE_LIST      default archive address list
  OBSSELECT_RESOLVER_URL      Sesame endpoint
  OBSSELECT_RESOLVER_TIMEOUT  name resolution timeout (10s)
  OBSSELECT_LOG_LEVEL         debug, info, warn or error (info)
  OBSSELECT_LOG_FORMAT        text or json (text)

Progress and warnings are logged to stderr.


File formats

The master table must have columns RA and DEC in degrees, START_TIME as
dd/mm/yyyy and OBSID, an integer of at most 11 digits.  Other columns are
copied to the output table unchanged.

Archive addresses have the form YYYY_MM/OOOOOOOOOOO, the year and month of
START_TIME and the zero padded OBSID.  An observation with a START_TIME or
OBSID that does not parse is still written to the output table, but its
line in the address list is empty.  Blank lines in the address list are
significant: line n+1 of the list belongs to row n of the output table.
Read the list line by line, not with a CSV reader that skips blank lines.

A blank RA or DEC cell is logged and the observation is never selected.
Any other non-numeric RA or DEC is an error.

If the directory of an output file does not exist a warning is logged.
Obsselect does not create directories.


Exit status

  0  success, including selections with no observations
  1  unreadable master table, missing column, bad arguments, write failure
  2  object name not resolved

-------------
Public domain.
*/
package main
