package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultPagureURL = "https://pagure.io"

// Pagure implements the Client interface for pagure.io and self-hosted
// Pagure instances via the v0 API.
type Pagure struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewPagure creates a new Pagure client.
func NewPagure(cfg ClientConfig) (*Pagure, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	baseURL := defaultPagureURL
	if cfg.Host != "" {
		baseURL = strings.TrimSuffix(cfg.Host, "/")
	}
	return &Pagure{
		token:   cfg.Token,
		baseURL: baseURL,
		client:  httpClient,
	}, nil
}

func (p *Pagure) Name() string { return TypePagure }

// RequestReviews lists open pull requests for the referenced repository.
// Pagure repositories are addressed by path ("repo" or "namespace/repo"),
// so both resolver shapes map back onto one request path.
func (p *Pagure) RequestReviews(ctx context.Context, ref RepoRef, opts RequestOptions) ([]Record, error) {
	path := ref.UserName
	if ref.RepoName != "" {
		path = ref.UserName + "/" + ref.RepoName
	}

	endpoint := fmt.Sprintf("%s/api/0/%s/pull-requests?status=Open", p.baseURL, path)
	var result pagureRequests
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, &ServiceError{Service: TypePagure, Ref: ref, Err: err}
	}

	records := []Record{}
	for _, pr := range result.Requests {
		seconds, err := strconv.ParseInt(pr.DateCreated, 10, 64)
		if err != nil {
			return nil, &ServiceError{
				Service: TypePagure,
				Ref:     ref,
				Err:     fmt.Errorf("parsing date_created %q: %w", pr.DateCreated, err),
			}
		}
		records = append(records, Record{
			Title:        pr.Title,
			URL:          fmt.Sprintf("%s/%s/pull-request/%d", p.baseURL, path, pr.ID),
			Time:         time.Unix(seconds, 0).UTC(),
			UserName:     ref.UserName,
			RepoName:     ref.RepoName,
			Author:       pr.User.Name,
			CommentCount: len(pr.Comments),
		})
	}

	filtered, err := filterByAge(records, opts, time.Now())
	if err != nil {
		return nil, &ServiceError{Service: TypePagure, Ref: ref, Err: err}
	}
	return filtered, nil
}

func (p *Pagure) getJSON(ctx context.Context, endpoint string, out any) error {
	return retryWithBackoff(ctx, 3, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if p.token != "" {
			req.Header.Set("Authorization", "token "+p.token)
		}

		resp, err := p.client.Do(req)
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

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		return nil
	})
}

type pagureRequests struct {
	Requests []pagurePullRequest `json:"requests"`
}

// Pagure encodes timestamps as string-wrapped epoch seconds.
type pagurePullRequest struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	DateCreated string            `json:"date_created"`
	User        pagureUser        `json:"user"`
	Comments    []json.RawMessage `json:"comments"`
}

type pagureUser struct {
	Name string `json:"name"`
}
