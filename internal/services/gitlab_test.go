package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitLabRequestReviews(t *testing.T) {
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("PRIVATE-TOKEN"))
		switch r.URL.EscapedPath() {
		case "/api/v4/projects/group%2Fproject":
			fmt.Fprint(w, `{"id": 42, "path_with_namespace": "group/project"}`)
		case "/api/v4/projects/42/merge_requests":
			assert.Equal(t, "opened", r.URL.Query().Get("state"))
			fmt.Fprintf(w, `[{
				"title": "Add feature",
				"web_url": "https://gitlab.example/group/project/-/merge_requests/7",
				"created_at": %q,
				"user_notes_count": 3,
				"author": {"username": "bob"}
			}]`, created.Format(time.RFC3339))
		default:
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewGitLab(ClientConfig{Token: "secret", Host: server.URL})
	require.NoError(t, err)

	recs, err := client.RequestReviews(context.Background(),
		RepoRef{UserName: "group", RepoName: "project"}, RequestOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "Add feature", recs[0].Title)
	assert.Equal(t, "https://gitlab.example/group/project/-/merge_requests/7", recs[0].URL)
	assert.Equal(t, created, recs[0].Time)
	assert.Equal(t, "group", recs[0].UserName)
	assert.Equal(t, "project", recs[0].RepoName)
	assert.Equal(t, "bob", recs[0].Author)
	assert.Equal(t, 3, recs[0].CommentCount)
}

func TestGitLabRequestReviewsOwnerWide(t *testing.T) {
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/api/v4/users/group/projects":
			fmt.Fprint(w, `[{"id": 1, "path_with_namespace": "group/a"}, {"id": 2, "path_with_namespace": "group/b"}]`)
		case "/api/v4/projects/1/merge_requests":
			fmt.Fprintf(w, `[{"title": "MR", "web_url": "u", "created_at": %q, "author": {}}]`, created.Format(time.RFC3339))
		case "/api/v4/projects/2/merge_requests":
			fmt.Fprint(w, `[]`)
		default:
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewGitLab(ClientConfig{Host: server.URL})
	require.NoError(t, err)

	recs, err := client.RequestReviews(context.Background(),
		RepoRef{UserName: "group"}, RequestOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].RepoName)
}

func TestGitLabRequestReviewsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "401 Unauthorized"}`)
	}))
	defer server.Close()

	client, err := NewGitLab(ClientConfig{Host: server.URL})
	require.NoError(t, err)

	_, err = client.RequestReviews(context.Background(),
		RepoRef{UserName: "group", RepoName: "project"}, RequestOptions{})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, TypeGitLab, svcErr.Service)
}
