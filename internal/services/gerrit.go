package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// gerritTimeLayout is Gerrit's timestamp encoding: UTC, optional
// nanosecond fraction, no zone designator.
const gerritTimeLayout = "2006-01-02 15:04:05.999999999"

// gerritXSSIPrefix precedes every Gerrit JSON response body and must be
// stripped before decoding.
var gerritXSSIPrefix = []byte(")]}'")

// Gerrit implements the Client interface for Gerrit instances. Gerrit has
// no hosted default, so a host is required.
type Gerrit struct {
	baseURL string
	client  *http.Client
}

// NewGerrit creates a new Gerrit client.
func NewGerrit(cfg ClientConfig) (*Gerrit, error) {
	if cfg.Host == "" {
		return nil, errors.New("gerrit requires a host")
	}
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Gerrit{
		baseURL: strings.TrimSuffix(cfg.Host, "/"),
		client:  httpClient,
	}, nil
}

func (g *Gerrit) Name() string { return TypeGerrit }

// RequestReviews lists open changes for the referenced project. The
// resolver has already query-escaped the project path, so the reference is
// embedded in the change query verbatim.
func (g *Gerrit) RequestReviews(ctx context.Context, ref RepoRef, opts RequestOptions) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/changes/?q=project:%s+status:open", g.baseURL, ref.RepoName)
	var changes []gerritChange
	if err := g.getJSON(ctx, endpoint, &changes); err != nil {
		return nil, &ServiceError{Service: TypeGerrit, Ref: ref, Err: err}
	}

	records := []Record{}
	for _, change := range changes {
		created, err := time.Parse(gerritTimeLayout, change.Created)
		if err != nil {
			return nil, &ServiceError{
				Service: TypeGerrit,
				Ref:     ref,
				Err:     fmt.Errorf("parsing created %q: %w", change.Created, err),
			}
		}
		records = append(records, Record{
			Title:    change.Subject,
			URL:      fmt.Sprintf("%s/#/c/%d", g.baseURL, change.Number),
			Time:     created.UTC(),
			RepoName: ref.RepoName,
			Author:   change.Owner.Username,
		})
	}

	filtered, err := filterByAge(records, opts, time.Now())
	if err != nil {
		return nil, &ServiceError{Service: TypeGerrit, Ref: ref, Err: err}
	}
	return filtered, nil
}

func (g *Gerrit) getJSON(ctx context.Context, endpoint string, out any) error {
	return retryWithBackoff(ctx, 3, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == 429 {
			return &rateLimitError{}
		}
		if resp.StatusCode == 401 || resp.StatusCode == 403 {
			return &authError{message: string(body)}
		}
		if resp.StatusCode >= 500 {
			return &serverError{statusCode: resp.StatusCode, body: string(body)}
		}
		if resp.StatusCode != 200 {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}

		body = bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(body), gerritXSSIPrefix))
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		return nil
	})
}

type gerritChange struct {
	Subject string      `json:"subject"`
	Created string      `json:"created"`
	Number  int         `json:"_number"`
	Owner   gerritOwner `json:"owner"`
}

type gerritOwner struct {
	Username string `json:"username"`
}
