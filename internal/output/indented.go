package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jcline/revlist/internal/services"
)

// IndentedFormatter renders a multi-line block per record.
type IndentedFormatter struct{}

func (f *IndentedFormatter) Prefix() string { return "" }
func (f *IndentedFormatter) Suffix() string { return "" }

func (f *IndentedFormatter) FormatRecord(r services.Record, i, n int) string {
	var b strings.Builder
	b.WriteString(r.Title + "\n")
	if label := r.Label(); label != "" {
		fmt.Fprintf(&b, "    Repo:     %s\n", label)
	}
	if r.Author != "" {
		fmt.Fprintf(&b, "    Author:   %s\n", r.Author)
	}
	if r.CommentCount > 0 {
		fmt.Fprintf(&b, "    Comments: %d\n", r.CommentCount)
	}
	fmt.Fprintf(&b, "    URL:      %s\n", r.URL)
	fmt.Fprintf(&b, "    Opened:   %s (%s)",
		r.Time.Format("2006-01-02 15:04 MST"), relativeAge(r.Time, time.Now()))
	if i < n-1 {
		b.WriteString("\n")
	}
	return b.String()
}
