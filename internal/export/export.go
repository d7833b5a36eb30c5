// Package export writes the emoji index as a spreadsheet or delimited text.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/nhath/ezmoji/internal/emoji"
)

const sheet = "Sheet1"

// Header is the column order shared by every format.
var Header = []string{"order", "emoji", "primary", "aliases", "terms"}

func row(e emoji.Entry) []string {
	return []string{
		strconv.Itoa(e.Order),
		e.Value,
		e.Primary,
		strings.Join(e.Aliases, " "),
		strings.Join(e.Terms, " "),
	}
}

// CSV writes entries with a | separator.
func CSV(w io.Writer, entries []emoji.Entry) error {
	cw := csv.NewWriter(w)
	cw.Comma = '|'
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes entries to a workbook at path.
func XLSX(path string, entries []emoji.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	// StreamWriter for efficiency on large tables
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "open sheet")
	}
	if err := sw.SetRow("A1", cells(Header)); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, e := range entries {
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(addr, cells(row(e))); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush sheet")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create directory")
	}
	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}

// File picks the format from the extension: .xlsx or anything else as CSV.
func File(path string, entries []emoji.Entry) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return path, XLSX(path, entries)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		path += ".csv"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create export file")
	}
	defer f.Close()
	return path, CSV(f, entries)
}

func cells(vals []string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
