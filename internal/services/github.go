package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
)

// GitHub implements the Client interface for github.com and GitHub
// Enterprise instances, built on google/go-github with a secondary
// rate-limit-aware transport.
type GitHub struct {
	gh *gh.Client
}

// NewGitHub creates a new GitHub client. When cfg.Host is set it is used as
// the API base URL (e.g. "https://ghe.example.com/api/v3"); otherwise the
// client talks to api.github.com.
func NewGitHub(cfg ClientConfig) (*GitHub, error) {
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	client := gh.NewClient(github_ratelimit.NewClient(transport))
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.Host != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.Host, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing host URL: %w", err)
		}
		client.BaseURL = base
	}
	return &GitHub{gh: client}, nil
}

func (g *GitHub) Name() string { return TypeGitHub }

// RequestReviews lists open pull requests for the referenced repository, or
// for every repository of the owner when the reference has no repo name.
func (g *GitHub) RequestReviews(ctx context.Context, ref RepoRef, opts RequestOptions) ([]Record, error) {
	repos := []string{ref.RepoName}
	if ref.RepoName == "" {
		all, err := g.listRepos(ctx, ref.UserName)
		if err != nil {
			return nil, &ServiceError{Service: TypeGitHub, Ref: ref, Err: err}
		}
		repos = all
	}

	records := []Record{}
	for _, repo := range repos {
		recs, err := g.listPulls(ctx, ref.UserName, repo)
		if err != nil {
			return nil, &ServiceError{Service: TypeGitHub, Ref: ref, Err: err}
		}
		records = append(records, recs...)
	}

	filtered, err := filterByAge(records, opts, time.Now())
	if err != nil {
		return nil, &ServiceError{Service: TypeGitHub, Ref: ref, Err: err}
	}
	return filtered, nil
}

func (g *GitHub) listRepos(ctx context.Context, owner string) ([]string, error) {
	listOpts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var names []string
	for {
		repos, resp, err := g.gh.Repositories.ListByUser(ctx, owner, listOpts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s: %w", owner, err)
		}
		for _, r := range repos {
			names = append(names, r.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}
	return names, nil
}

func (g *GitHub) listPulls(ctx context.Context, owner, repo string) ([]Record, error) {
	listOpts := &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var records []Record
	for {
		pulls, resp, err := g.gh.PullRequests.List(ctx, owner, repo, listOpts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s/%s: %w", owner, repo, err)
		}
		for _, pr := range pulls {
			records = append(records, Record{
				Title:        pr.GetTitle(),
				URL:          pr.GetHTMLURL(),
				Time:         pr.GetCreatedAt().Time.UTC(),
				UserName:     owner,
				RepoName:     repo,
				Author:       pr.GetUser().GetLogin(),
				CommentCount: pr.GetComments(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}
	return records, nil
}
