// Public domain.

package catalog

import (
	"encoding/csv"
	"os"

	"github.com/jszwec/csvutil"
)

// ArchiveListHeader is the single header line of the archive address list.
const ArchiveListHeader = "archive_addr"

type archiveRow struct {
	Addr string `csv:"archive_addr"`
}

// WriteTable writes t as comma delimited text with a header row and no
// index column.
func WriteTable(path string, t *Table) error {
	return writeFile(path, func(w *csv.Writer) error {
		if err := w.Write(t.Header); err != nil {
			return err
		}
		for i := range t.Records {
			if err := w.Write(t.Records[i].Cells); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteArchiveList writes one archive address per line under a header
// line.  An empty address is written as a blank line, so line i+1 always
// corresponds to addrs[i].
func WriteArchiveList(path string, addrs []string) error {
	return writeFile(path, func(w *csv.Writer) error {
		enc := csvutil.NewEncoder(w)
		if err := enc.EncodeHeader(archiveRow{}); err != nil {
			return err
		}
		for _, a := range addrs {
			if err := enc.Encode(archiveRow{Addr: a}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, write func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err = write(w); err == nil {
		w.Flush()
		err = w.Error()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
