// Package github is a thin read-only client for the public GitHub API,
// used to surface recent activity and repository stats on the portfolio.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

// activityEventTypes are the only event kinds worth showing on the site.
var activityEventTypes = map[string]struct{}{
	"PushEvent":        {},
	"CreateEvent":      {},
	"PullRequestEvent": {},
}

const maxActivityItems = 10

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Repo      string    `json:"repo"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	HTMLURL     string    `json:"htmlUrl"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Profile struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"publicRepos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Client caches responses in an injected in-process cache. The cache and
// TTL are constructor arguments so tests control expiry; entries survive
// only for the process lifetime.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL  string
	httpc    *http.Client
	username string
	cache    *gocache.Cache
	ttl      time.Duration
}

func NewClient(token, username string, c *gocache.Cache, ttl time.Duration) *Client {
	httpc := http.DefaultClient
	if token != "" {
		httpc = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{
		BaseURL:  "https://api.github.com",
		httpc:    httpc,
		username: username,
		cache:    c,
		ttl:      ttl,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github request %s: status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("github decode %s: %w", path, err)
		}
	}
	return resp.Header, nil
}

// Activity returns the recent public events, filtered to pushes, creates
// and pull requests, newest first, at most ten.
func (c *Client) Activity(ctx context.Context) ([]Event, error) {
	const key = "github:activity"
	if v, ok := c.cache.Get(key); ok {
		return v.([]Event), nil
	}

	var raw []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Repo struct {
			Name string `json:"name"`
		} `json:"repo"`
		CreatedAt time.Time `json:"created_at"`
	}
	path := fmt.Sprintf("/users/%s/events/public?per_page=100", url.PathEscape(c.username))
	if _, err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	out := []Event{}
	for _, e := range raw {
		if _, ok := activityEventTypes[e.Type]; !ok {
			continue
		}
		out = append(out, Event{ID: e.ID, Type: e.Type, Repo: e.Repo.Name, CreatedAt: e.CreatedAt})
		if len(out) == maxActivityItems {
			break
		}
	}
	c.cache.Set(key, out, c.ttl)
	return out, nil
}

// Repos lists the user's public repositories, most recently updated first.
func (c *Client) Repos(ctx context.Context) ([]Repository, error) {
	const key = "github:repos"
	if v, ok := c.cache.Get(key); ok {
		return v.([]Repository), nil
	}

	var raw []struct {
		Name        string    `json:"name"`
		FullName    string    `json:"full_name"`
		HTMLURL     string    `json:"html_url"`
		Description string    `json:"description"`
		Language    string    `json:"language"`
		Stars       int       `json:"stargazers_count"`
		Forks       int       `json:"forks_count"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=100", url.PathEscape(c.username))
	if _, err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	out := make([]Repository, 0, len(raw))
	for _, r := range raw {
		out = append(out, Repository{
			Name: r.Name, FullName: r.FullName, HTMLURL: r.HTMLURL,
			Description: r.Description, Language: r.Language,
			Stars: r.Stars, Forks: r.Forks, UpdatedAt: r.UpdatedAt,
		})
	}
	c.cache.Set(key, out, c.ttl)
	return out, nil
}

var lastPageRe = regexp.MustCompile(`[?&]page=(\d+)>; rel="last"`)

// RepoCount asks for one repo per page and reads the total from the Link
// header's last-page marker, avoiding a full listing.
func (c *Client) RepoCount(ctx context.Context) (int, error) {
	const key = "github:repo_count"
	if v, ok := c.cache.Get(key); ok {
		return v.(int), nil
	}

	var raw []json.RawMessage
	path := fmt.Sprintf("/users/%s/repos?per_page=1", url.PathEscape(c.username))
	header, err := c.getJSON(ctx, path, &raw)
	if err != nil {
		return 0, err
	}

	count := len(raw)
	if m := lastPageRe.FindStringSubmatch(header.Get("Link")); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			count = n
		}
	}
	c.cache.Set(key, count, c.ttl)
	return count, nil
}

// User fetches the public profile (follower counts for the dashboard).
func (c *Client) User(ctx context.Context) (*Profile, error) {
	const key = "github:user"
	if v, ok := c.cache.Get(key); ok {
		p := v.(Profile)
		return &p, nil
	}

	var raw struct {
		Login       string `json:"login"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		Following   int    `json:"following"`
	}
	if _, err := c.getJSON(ctx, "/users/"+url.PathEscape(c.username), &raw); err != nil {
		return nil, err
	}

	p := Profile{Login: raw.Login, PublicRepos: raw.PublicRepos,
		Followers: raw.Followers, Following: raw.Following}
	c.cache.Set(key, p, c.ttl)
	return &p, nil
}
