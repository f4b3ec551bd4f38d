// Public domain.

package selector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftarchive/obsselect/internal/catalog"
	"github.com/swiftarchive/obsselect/internal/cone"
	"github.com/swiftarchive/obsselect/internal/logging"
	"github.com/swiftarchive/obsselect/internal/timefilter"
)

const master = `OBSID;RA;DEC;START_TIME;TARGET_NAME
49650001;194.04;-5.789;26/06/2013;3C279
1;0;0;01/01/2020;FIELD
49650002;194.05;-5.79;27/06/2013;3C279
`

var center3C279 = cone.Position{RA: 194.04, Dec: -5.789}

func readMaster(t *testing.T, content string) *catalog.Table {
	t.Helper()
	tb, err := catalog.Read(strings.NewReader(content), "master")
	require.NoError(t, err)
	return tb
}

func obsIDs(tb *catalog.Table) []int64 {
	var s []int64
	for _, r := range tb.Records {
		s = append(s, r.ObsID)
	}
	return s
}

func TestSelect_ConeOnly(t *testing.T) {
	res, err := New(logging.Discard()).Select(readMaster(t, master),
		Params{Center: center3C279, Radius: DefaultRadius})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Len())
	assert.Equal(t, []int64{49650001, 49650002}, obsIDs(res.Table))
	assert.Equal(t, []string{"2013_06/00049650001", "2013_06/00049650002"}, res.Paths)
}

func TestSelect_WithStart(t *testing.T) {
	res, err := New(logging.Discard()).Select(readMaster(t, master), Params{
		Center: center3C279,
		Radius: DefaultRadius,
		Window: timefilter.Window{Start: "27/06/2013"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{49650002}, obsIDs(res.Table))
	assert.Equal(t, []string{"2013_06/00049650002"}, res.Paths)
}

func TestSelect_MalformedDate(t *testing.T) {
	tb := readMaster(t, strings.Replace(master, "26/06/2013", "2013/06/26", 1))
	var logBuf bytes.Buffer
	res, err := New(logging.New(&logBuf, "info", "text")).Select(tb,
		Params{Center: center3C279, Radius: DefaultRadius})
	require.NoError(t, err)

	assert.Equal(t, []int64{49650001, 49650002}, obsIDs(res.Table), "row kept")
	assert.Equal(t, []string{"", "2013_06/00049650002"}, res.Paths)
	assert.Contains(t, logBuf.String(), "date=2013/06/26")
	assert.Contains(t, logBuf.String(), "obsid=49650001")
	assert.Contains(t, logBuf.String(), "line=2")
}

func TestSelect_BlankPosition(t *testing.T) {
	tb := readMaster(t, master+"7;;;01/01/2020;BLANK\n")
	var logBuf bytes.Buffer
	res, err := New(logging.New(&logBuf, "info", "text")).Select(tb,
		Params{Center: center3C279, Radius: DefaultRadius})
	require.NoError(t, err)

	assert.Equal(t, []int64{49650001, 49650002}, obsIDs(res.Table))
	assert.Contains(t, logBuf.String(), "observation has no position")
	assert.Contains(t, logBuf.String(), "line=5")
	assert.Contains(t, logBuf.String(), "obsid=7")
}

func TestSelect_MalformedBound(t *testing.T) {
	var logBuf bytes.Buffer
	res, err := New(logging.New(&logBuf, "info", "text")).Select(readMaster(t, master), Params{
		Center: center3C279,
		Radius: DefaultRadius,
		Window: timefilter.Window{Start: "2013-06-27"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{49650001, 49650002}, obsIDs(res.Table))
	assert.Contains(t, logBuf.String(), "level=WARN")
	assert.Contains(t, logBuf.String(), "start bound")
}

func TestSelect_NoMatch(t *testing.T) {
	res, err := New(logging.Discard()).Select(readMaster(t, master),
		Params{Center: cone.Position{RA: 90, Dec: 45}, Radius: DefaultRadius})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Paths)
}

func TestSelect_BadRadius(t *testing.T) {
	for _, r := range []unit.Angle{0, -1} {
		_, err := New(logging.Discard()).Select(readMaster(t, master),
			Params{Center: center3C279, Radius: r})
		assert.ErrorIs(t, err, ErrRadius)
	}
}

func TestSelect_DoesNotModifyTable(t *testing.T) {
	tb := readMaster(t, master)
	_, err := New(logging.Discard()).Select(tb, Params{Center: center3C279, Radius: DefaultRadius})
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Len())
}

func writeMaster(t *testing.T, dir, content string) string {
	t.Helper()
	fn := filepath.Join(dir, "master.csv")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func readFile(t *testing.T, fn string) string {
	t.Helper()
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	return string(b)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := Outputs{
		Table:       filepath.Join(dir, "3c279.csv"),
		ArchiveList: filepath.Join(dir, "addr.txt"),
	}
	res, err := New(logging.Discard()).Run(writeMaster(t, dir, master),
		Params{Center: center3C279, Radius: DefaultRadius}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())

	assert.Equal(t, "OBSID,RA,DEC,START_TIME,TARGET_NAME\n"+
		"49650001,194.04,-5.789,26/06/2013,3C279\n"+
		"49650002,194.05,-5.79,27/06/2013,3C279\n", readFile(t, out.Table))
	assert.Equal(t, "archive_addr\n2013_06/00049650001\n2013_06/00049650002\n",
		readFile(t, out.ArchiveList))
}

func TestRun_NoMatch(t *testing.T) {
	dir := t.TempDir()
	out := Outputs{
		Table:       filepath.Join(dir, "none.csv"),
		ArchiveList: filepath.Join(dir, "addr.txt"),
	}
	_, err := New(logging.Discard()).Run(writeMaster(t, dir, master),
		Params{Center: center3C279, Radius: DefaultRadius,
			Window: timefilter.Window{End: "01/01/2000"}}, out)
	require.NoError(t, err)
	assert.Equal(t, "OBSID,RA,DEC,START_TIME,TARGET_NAME\n", readFile(t, out.Table))
	assert.Equal(t, "archive_addr\n", readFile(t, out.ArchiveList))
}

func TestRun_MissingCatalog(t *testing.T) {
	dir := t.TempDir()
	_, err := New(logging.Discard()).Run(filepath.Join(dir, "absent.csv"),
		Params{Center: center3C279, Radius: DefaultRadius},
		Outputs{Table: filepath.Join(dir, "a"), ArchiveList: filepath.Join(dir, "b")})
	var le *catalog.LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "absent.csv")
}

func TestRun_MissingOutputDir(t *testing.T) {
	dir := t.TempDir()
	var logBuf bytes.Buffer
	out := Outputs{
		Table:       filepath.Join(dir, "sub", "3c279.csv"),
		ArchiveList: filepath.Join(dir, "addr.txt"),
	}
	_, err := New(logging.New(&logBuf, "info", "text")).Run(writeMaster(t, dir, master),
		Params{Center: center3C279, Radius: DefaultRadius}, out)
	require.Error(t, err, "write is attempted and fails")
	assert.Contains(t, logBuf.String(), "output directory needs to be created")
	assert.Contains(t, logBuf.String(), filepath.Join(dir, "sub"))
}

func TestCheckOutputDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckOutputDir(filepath.Join(dir, "x.csv")))
	assert.NoError(t, CheckOutputDir("x.csv"))

	err := CheckOutputDir(filepath.Join(dir, "nope", "x.csv"))
	var ope *OutputPathError
	require.True(t, errors.As(err, &ope))
	assert.Equal(t, filepath.Join(dir, "nope"), ope.Dir)
}
