package aggregate

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jcline/revlist/internal/config"
	"github.com/jcline/revlist/internal/services"
)

// DefaultWorkers bounds concurrent fetches when the configuration does not
// say otherwise.
const DefaultWorkers = 4

// newClient builds a service client; swapped out in tests.
var newClient = services.New

// fetchTask is one (service, repository) pair ready to fetch.
type fetchTask struct {
	client  services.Client
	ref     services.RepoRef
	service string
	repo    string
}

// Run fetches open review requests for every (service, repository) pair in
// the configuration and returns the merged, unsorted result set.
//
// Client construction happens up front so that an unknown service type or a
// bad TLS setup fails before any network call. Fetches then run under an
// errgroup with a bounded worker count; the first failure cancels the group
// context and Run returns that error with no records (all results or
// explicit failure, never a partial set).
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger) ([]services.Record, error) {
	opts := services.RequestOptions{
		State:    cfg.Arguments.State,
		Value:    cfg.Arguments.Value,
		Duration: cfg.Arguments.Duration,
	}

	var tasks []fetchTask
	for _, entry := range cfg.GitServices {
		client, err := newClient(entry.Type, services.ClientConfig{
			Token:              entry.Token,
			Host:               entry.Host,
			InsecureSkipVerify: cfg.Arguments.Insecure,
			CACertPath:         cfg.Arguments.CACert,
		})
		if err != nil {
			return nil, err
		}
		for _, repo := range entry.Repos {
			tasks = append(tasks, fetchTask{
				client:  client,
				ref:     services.ResolveRepoRef(repo, entry.Type),
				service: entry.Type,
				repo:    repo,
			})
		}
	}

	workers := cfg.Arguments.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	records := []services.Record{}

	for _, task := range tasks {
		g.Go(func() error {
			log.WithFields(logrus.Fields{
				"service": task.service,
				"repo":    task.repo,
			}).Debug("fetching reviews")

			recs, err := task.client.RequestReviews(ctx, task.ref, opts)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"service": task.service,
				"repo":    task.repo,
				"count":   len(recs),
			}).Debug("fetched reviews")

			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
