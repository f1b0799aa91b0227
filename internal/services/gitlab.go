package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGitLabURL = "https://gitlab.com"

// GitLab implements the Client interface for gitlab.com and self-hosted
// GitLab instances via the v4 REST API.
type GitLab struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewGitLab creates a new GitLab client.
func NewGitLab(cfg ClientConfig) (*GitLab, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	baseURL := defaultGitLabURL
	if cfg.Host != "" {
		baseURL = strings.TrimSuffix(cfg.Host, "/")
	}
	return &GitLab{
		token:   cfg.Token,
		baseURL: baseURL,
		client:  httpClient,
	}, nil
}

func (g *GitLab) Name() string { return TypeGitLab }

// RequestReviews lists open merge requests for the referenced project, or
// for every project of the namespace when the reference has no repo name.
func (g *GitLab) RequestReviews(ctx context.Context, ref RepoRef, opts RequestOptions) ([]Record, error) {
	var projects []gitlabProject

	if ref.RepoName != "" {
		path := ref.UserName + "/" + ref.RepoName
		var project gitlabProject
		endpoint := fmt.Sprintf("%s/api/v4/projects/%s", g.baseURL, url.PathEscape(path))
		if err := g.getJSON(ctx, endpoint, &project); err != nil {
			return nil, &ServiceError{Service: TypeGitLab, Ref: ref, Err: err}
		}
		projects = []gitlabProject{project}
	} else {
		endpoint := fmt.Sprintf("%s/api/v4/users/%s/projects?per_page=100", g.baseURL, url.PathEscape(ref.UserName))
		if err := g.getJSON(ctx, endpoint, &projects); err != nil {
			return nil, &ServiceError{Service: TypeGitLab, Ref: ref, Err: err}
		}
	}

	records := []Record{}
	for _, project := range projects {
		endpoint := fmt.Sprintf("%s/api/v4/projects/%d/merge_requests?state=opened&per_page=100", g.baseURL, project.ID)
		var mrs []gitlabMergeRequest
		if err := g.getJSON(ctx, endpoint, &mrs); err != nil {
			return nil, &ServiceError{Service: TypeGitLab, Ref: ref, Err: err}
		}
		userName, repoName := splitNamespace(project.PathWithNamespace)
		for _, mr := range mrs {
			records = append(records, Record{
				Title:        mr.Title,
				URL:          mr.WebURL,
				Time:         mr.CreatedAt.UTC(),
				UserName:     userName,
				RepoName:     repoName,
				Author:       mr.Author.Username,
				CommentCount: mr.UserNotesCount,
			})
		}
	}

	filtered, err := filterByAge(records, opts, time.Now())
	if err != nil {
		return nil, &ServiceError{Service: TypeGitLab, Ref: ref, Err: err}
	}
	return filtered, nil
}

func (g *GitLab) getJSON(ctx context.Context, endpoint string, out any) error {
	return retryWithBackoff(ctx, 3, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if g.token != "" {
			req.Header.Set("PRIVATE-TOKEN", g.token)
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

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		return nil
	})
}

// splitNamespace splits "group/project" on the first separator; nested
// groups keep their remaining slashes on the project side.
func splitNamespace(path string) (string, string) {
	if i := strings.Index(path, "/"); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

type gitlabProject struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
}

type gitlabMergeRequest struct {
	Title          string       `json:"title"`
	WebURL         string       `json:"web_url"`
	CreatedAt      time.Time    `json:"created_at"`
	UserNotesCount int          `json:"user_notes_count"`
	Author         gitlabAuthor `json:"author"`
}

type gitlabAuthor struct {
	Username string `json:"username"`
}
