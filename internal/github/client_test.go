package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("", "octocat", gocache.New(time.Minute, time.Minute), time.Minute)
	c.BaseURL = srv.URL
	return c, srv
}

func TestActivityFiltersAndCaps(t *testing.T) {
	events := `[`
	// 12 push events interleaved with kinds that must be dropped.
	for i := 0; i < 12; i++ {
		events += fmt.Sprintf(`{"id":"p%d","type":"PushEvent","repo":{"name":"octocat/site"},"created_at":"2025-01-01T00:00:00Z"},`, i)
		events += fmt.Sprintf(`{"id":"w%d","type":"WatchEvent","repo":{"name":"octocat/site"},"created_at":"2025-01-01T00:00:00Z"},`, i)
	}
	events += `{"id":"c1","type":"CreateEvent","repo":{"name":"octocat/new"},"created_at":"2025-01-01T00:00:00Z"}]`

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/events/public", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, events)
	})

	out, err := c.Activity(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 10)
	for _, e := range out {
		assert.Contains(t, []string{"PushEvent", "CreateEvent", "PullRequestEvent"}, e.Type)
	}
}

func TestActivityServedFromCache(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `[{"id":"1","type":"PushEvent","repo":{"name":"octocat/site"},"created_at":"2025-01-01T00:00:00Z"}]`)
	})

	ctx := context.Background()
	_, err := c.Activity(ctx)
	require.NoError(t, err)
	_, err = c.Activity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call must hit the cache")

	// An expired cache reaches upstream again.
	c.cache.Flush()
	_, err = c.Activity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRepoCountFromLinkHeader(t *testing.T) {
	c, srv := newTestClient(t, nil)
	srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link",
			fmt.Sprintf(`<%s/users/octocat/repos?per_page=1&page=2>; rel="next", <%s/users/octocat/repos?per_page=1&page=37>; rel="last"`,
				srv.URL, srv.URL))
		fmt.Fprint(w, `[{}]`)
	})

	n, err := c.RepoCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 37, n)
}

func TestRepoCountWithoutLinkHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{}]`)
	})

	n, err := c.RepoCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserProfile(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		fmt.Fprint(w, `{"login":"octocat","public_repos":8,"followers":120,"following":15}`)
	})

	p, err := c.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", p.Login)
	assert.Equal(t, 120, p.Followers)
	assert.Equal(t, 15, p.Following)
	assert.Equal(t, 8, p.PublicRepos)
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})

	_, err := c.Activity(context.Background())
	assert.Error(t, err)
}
