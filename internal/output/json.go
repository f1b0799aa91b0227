package output

import (
	"encoding/json"
	"time"

	"github.com/jcline/revlist/internal/services"
)

// JSONFormatter renders one JSON object per record, wrapped in array
// brackets by Prefix and Suffix. Elements before the last carry a trailing
// comma so the concatenated report parses as a JSON array.
type JSONFormatter struct{}

func (f *JSONFormatter) Prefix() string { return "[" }
func (f *JSONFormatter) Suffix() string { return "]" }

func (f *JSONFormatter) FormatRecord(r services.Record, i, n int) string {
	data, err := json.Marshal(jsonRecord{
		Title:        r.Title,
		URL:          r.URL,
		Time:         r.Time.UTC().Format(time.RFC3339),
		UserName:     r.UserName,
		RepoName:     r.RepoName,
		Author:       r.Author,
		CommentCount: r.CommentCount,
	})
	if err != nil {
		// Marshaling a flat struct of strings and ints cannot fail.
		return "{}"
	}
	line := "  " + string(data)
	if i < n-1 {
		line += ","
	}
	return line
}

type jsonRecord struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Time         string `json:"time"`
	UserName     string `json:"user_name,omitempty"`
	RepoName     string `json:"repo_name,omitempty"`
	Author       string `json:"author,omitempty"`
	CommentCount int    `json:"comment_count,omitempty"`
}
