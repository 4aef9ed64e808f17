// Package export serializes record sequences to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

type Format int

const (
	FormatCSV Format = iota + 1
	FormatJSON
)

func (f Format) Extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "csv"
}

// Record is a homogeneous export row. Fields returns the attribute names
// in column order, Values the corresponding CSV cells; list-valued
// attributes are already flattened by the record itself. JSON export
// marshals the record directly, so list-valued attributes stay arrays.
type Record interface {
	Fields() []string
	Values() []string
}

// FileName builds the output file name for a base name and date:
// <base>_<YYYY-MM-DD>.<ext>.
func FileName(base string, format Format, now time.Time) string {
	return base + "_" + now.Format("2006-01-02") + "." + format.Extension()
}

// WriteFile serializes records into dir, named after base and today's
// date. An existing file with the same name is overwritten. Returns the
// path of the written file.
func WriteFile(dir, base string, format Format, records []Record) (string, error) {
	if len(records) == 0 {
		return "", oops.Errorf("nothing to export")
	}

	path := filepath.Join(dir, FileName(base, format, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", oops.With("path", path).Wrapf(err, "failed to create output file")
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		err = WriteJSON(f, records)
	default:
		err = WriteCSV(f, records)
	}
	if err != nil {
		return "", oops.With("path", path).Wrap(err)
	}
	if err := f.Close(); err != nil {
		return "", oops.With("path", path).Wrapf(err, "failed to write output file")
	}

	return path, nil
}

// WriteCSV writes a header row of attribute names followed by one row per
// record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(records[0].Fields()); err != nil {
		return oops.Wrapf(err, "failed to write csv header")
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return oops.Wrapf(err, "failed to write csv row")
		}
	}
	cw.Flush()

	return oops.Wrapf(cw.Error(), "failed to flush csv")
}

// WriteJSON writes the records as one indented array of objects.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return oops.Wrapf(enc.Encode(records), "failed to encode json")
}
