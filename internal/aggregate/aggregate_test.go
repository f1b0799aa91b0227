package aggregate

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcline/revlist/internal/config"
	"github.com/jcline/revlist/internal/services"
)

type stubClient struct {
	name    string
	records map[string][]services.Record
	errs    map[string]error
	calls   *atomic.Int32
}

func (s *stubClient) Name() string { return s.name }

func (s *stubClient) RequestReviews(ctx context.Context, ref services.RepoRef, opts services.RequestOptions) ([]services.Record, error) {
	if s.calls != nil {
		s.calls.Add(1)
	}
	if err := s.errs[ref.String()]; err != nil {
		return nil, err
	}
	return s.records[ref.String()], nil
}

func withStubFactory(t *testing.T, stub services.Client) {
	t.Helper()
	orig := newClient
	newClient = func(serviceType string, cfg services.ClientConfig) (services.Client, error) {
		return stub, nil
	}
	t.Cleanup(func() { newClient = orig })
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(repos ...string) *config.Config {
	return &config.Config{
		GitServices: []config.ServiceEntry{
			{Type: services.TypeGitHub, Repos: repos},
		},
		Arguments: config.Arguments{Format: "oneline", Workers: 2},
	}
}

func TestRunCollectsAllRepos(t *testing.T) {
	now := time.Now().UTC()
	withStubFactory(t, &stubClient{
		name: "github",
		records: map[string][]services.Record{
			"octo/hello": {
				{Title: "one", Time: now.Add(-time.Hour)},
				{Title: "two", Time: now.Add(-2 * time.Hour)},
			},
			"octo/world": {
				{Title: "three", Time: now.Add(-3 * time.Hour)},
			},
		},
	})

	records, err := Run(context.Background(), testConfig("octo/hello", "octo/world"), quietLogger())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRunEmptyResults(t *testing.T) {
	withStubFactory(t, &stubClient{name: "github"})

	records, err := Run(context.Background(), testConfig("octo/hello"), quietLogger())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// Fail-fast policy: one failing repository aborts the whole run with no
// records, even when the other repository had results.
func TestRunFailFast(t *testing.T) {
	now := time.Now().UTC()
	fetchErr := &services.ServiceError{
		Service: "github",
		Ref:     services.RepoRef{UserName: "octo", RepoName: "broken"},
		Err:     errors.New("connection refused"),
	}
	withStubFactory(t, &stubClient{
		name: "github",
		records: map[string][]services.Record{
			"octo/hello": {
				{Title: "one", Time: now},
				{Title: "two", Time: now},
				{Title: "three", Time: now},
			},
		},
		errs: map[string]error{"octo/broken": fetchErr},
	})

	records, err := Run(context.Background(), testConfig("octo/broken", "octo/hello"), quietLogger())
	require.Error(t, err)
	assert.Nil(t, records)

	var svcErr *services.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "octo/broken", svcErr.Ref.String())
}

func TestRunUnknownServiceFailsBeforeFetch(t *testing.T) {
	calls := &atomic.Int32{}
	stub := &stubClient{name: "github", calls: calls}
	orig := newClient
	newClient = func(serviceType string, cfg services.ClientConfig) (services.Client, error) {
		if serviceType == "bitkeeper" {
			return nil, &services.UnknownServiceError{Type: serviceType}
		}
		return stub, nil
	}
	t.Cleanup(func() { newClient = orig })

	cfg := &config.Config{
		GitServices: []config.ServiceEntry{
			{Type: services.TypeGitHub, Repos: []string{"octo/hello"}},
			{Type: "bitkeeper", Repos: []string{"octo/runn"}},
		},
		Arguments: config.Arguments{Format: "oneline"},
	}

	_, err := Run(context.Background(), cfg, quietLogger())
	require.Error(t, err)

	var unknownErr *services.UnknownServiceError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, int32(0), calls.Load(), "no fetch should run when client construction fails")
}

func TestRunPassesFilterOptions(t *testing.T) {
	var got services.RequestOptions
	orig := newClient
	newClient = func(serviceType string, cfg services.ClientConfig) (services.Client, error) {
		return clientFunc(func(ctx context.Context, ref services.RepoRef, opts services.RequestOptions) ([]services.Record, error) {
			got = opts
			return nil, nil
		}), nil
	}
	t.Cleanup(func() { newClient = orig })

	cfg := testConfig("octo/hello")
	cfg.Arguments.State = services.StateNewer
	cfg.Arguments.Value = 2
	cfg.Arguments.Duration = services.UnitDay

	_, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, services.RequestOptions{State: services.StateNewer, Value: 2, Duration: services.UnitDay}, got)
}

type clientFunc func(ctx context.Context, ref services.RepoRef, opts services.RequestOptions) ([]services.Record, error)

func (f clientFunc) RequestReviews(ctx context.Context, ref services.RepoRef, opts services.RequestOptions) ([]services.Record, error) {
	return f(ctx, ref, opts)
}

func (f clientFunc) Name() string { return "stub" }
