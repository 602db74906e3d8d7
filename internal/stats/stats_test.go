package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hafizkhan902/portfolio-backend/internal/github"
	"github.com/hafizkhan902/portfolio-backend/internal/messages"
)

type stubCounter struct {
	total  int64
	recent int64
	err    error
}

func (s stubCounter) Count(ctx context.Context) (int64, error) {
	return s.total, s.err
}

func (s stubCounter) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.recent, s.err
}

type stubSkills struct {
	stubCounter
	byCat map[string]int64
}

func (s stubSkills) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byCat, nil
}

type stubMessages struct {
	stats *messages.Stats
	err   error
}

func (s stubMessages) Stats(ctx context.Context) (*messages.Stats, error) {
	return s.stats, s.err
}

type stubGitHub struct {
	repos   int
	profile *github.Profile
	err     error
}

func (s stubGitHub) RepoCount(ctx context.Context) (int, error) {
	return s.repos, s.err
}

func (s stubGitHub) User(ctx context.Context) (*github.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func TestCollectAggregatesAllSources(t *testing.T) {
	svc := NewService(
		stubCounter{total: 12, recent: 3},
		stubSkills{stubCounter: stubCounter{total: 30, recent: 5}, byCat: map[string]int64{"frontend": 18}},
		stubCounter{total: 8, recent: 1},
		stubCounter{total: 20, recent: 2},
		stubMessages{stats: &messages.Stats{Total: 40, Unread: 4, RecentLast7: 6, ResponseRate: 25}},
		stubGitHub{repos: 37, profile: &github.Profile{Followers: 120, Following: 15}},
	)

	d := svc.Collect(context.Background())

	assert.Equal(t, int64(12), d.Projects.Total)
	assert.Equal(t, int64(3), d.Projects.Recent)
	assert.Equal(t, int64(30), d.Skills.Total)
	assert.Equal(t, int64(18), d.Skills.ByCategory["frontend"])
	assert.Equal(t, int64(8), d.Journey.Total)
	assert.Equal(t, int64(20), d.Highlights.Total)
	assert.Equal(t, int64(40), d.Messages.Total)
	assert.Equal(t, int64(4), d.Messages.Unread)
	assert.Equal(t, float64(25), d.Messages.ResponseRate)
	assert.Equal(t, 37, d.GitHub.Repos)
	assert.Equal(t, 120, d.GitHub.Followers)
	assert.False(t, d.GeneratedAt.IsZero())
}

func TestCollectDegradesFailedSourcesToZero(t *testing.T) {
	boom := errors.New("source down")
	svc := NewService(
		stubCounter{err: boom},
		stubSkills{stubCounter: stubCounter{err: boom}},
		stubCounter{total: 8, recent: 1},
		stubCounter{err: boom},
		stubMessages{err: boom},
		stubGitHub{err: boom},
	)

	d := svc.Collect(context.Background())

	// Failing sources report zeros; the healthy one still comes through.
	assert.Equal(t, int64(0), d.Projects.Total)
	assert.Equal(t, int64(0), d.Skills.Total)
	assert.NotNil(t, d.Skills.ByCategory)
	assert.Equal(t, int64(8), d.Journey.Total)
	assert.Equal(t, int64(0), d.Highlights.Total)
	assert.Equal(t, int64(0), d.Messages.Total)
	assert.Equal(t, 0, d.GitHub.Repos)
}

func TestCollectWithoutGitHub(t *testing.T) {
	svc := NewService(
		stubCounter{}, stubSkills{}, stubCounter{}, stubCounter{},
		stubMessages{stats: &messages.Stats{}}, nil,
	)

	d := svc.Collect(context.Background())
	assert.Equal(t, 0, d.GitHub.Repos)
}
