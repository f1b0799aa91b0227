package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jcline/revlist/internal/services"
)

// OnelineFormatter renders one compact line per record.
type OnelineFormatter struct{}

func (f *OnelineFormatter) Prefix() string { return "" }
func (f *OnelineFormatter) Suffix() string { return "" }

func (f *OnelineFormatter) FormatRecord(r services.Record, i, n int) string {
	var b strings.Builder
	if label := r.Label(); label != "" {
		fmt.Fprintf(&b, "%s: ", label)
	}
	b.WriteString(r.Title)
	if r.Author != "" {
		fmt.Fprintf(&b, " (by %s)", r.Author)
	}
	fmt.Fprintf(&b, " %s [%s]", r.URL, relativeAge(r.Time, time.Now()))
	return b.String()
}
