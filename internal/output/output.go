package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jcline/revlist/internal/services"
)

// Formatter renders one record at position i of n. Prefix and Suffix wrap
// the whole report; both are empty for plain-text styles. FormatRecord is a
// pure function and must not fail: records with missing optional fields
// render without them.
type Formatter interface {
	Prefix() string
	Suffix() string
	FormatRecord(r services.Record, i, n int) string
}

// Styles accepted by GetFormatter.
const (
	StyleOneline  = "oneline"
	StyleIndented = "indented"
	StyleJSON     = "json"
)

// GetFormatter returns a formatter for the specified style.
func GetFormatter(style string) (Formatter, error) {
	switch style {
	case StyleOneline:
		return &OnelineFormatter{}, nil
	case StyleIndented:
		return &IndentedFormatter{}, nil
	case StyleJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output style: %s", style)
	}
}

// SortRecords stable-sorts records by time in place, ascending by default
// and descending when reverse is set. Equal times keep their relative
// accumulation order either way.
func SortRecords(records []services.Record, reverse bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if reverse {
			return records[j].Time.Before(records[i].Time)
		}
		return records[i].Time.Before(records[j].Time)
	})
}

// Write sorts the records and renders the full report: style prefix, one
// formatted entry per record, style suffix. An empty result set still
// emits the prefix and suffix, so a json report of zero records is a valid
// empty array.
func Write(w io.Writer, records []services.Record, style string, reverse bool) error {
	formatter, err := GetFormatter(style)
	if err != nil {
		return err
	}

	SortRecords(records, reverse)

	ew := &errWriter{w: w}
	if prefix := formatter.Prefix(); prefix != "" {
		ew.println(prefix)
	}
	n := len(records)
	for i, r := range records {
		ew.println(formatter.FormatRecord(r, i, n))
	}
	if suffix := formatter.Suffix(); suffix != "" {
		ew.println(suffix)
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
