// Package stats aggregates the admin dashboard numbers across every
// resource. Each source is queried concurrently and independently: a
// failing source logs and reports zeros instead of failing the dashboard.
package stats

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hafizkhan902/portfolio-backend/internal/github"
	"github.com/hafizkhan902/portfolio-backend/internal/messages"
)

// Counter is the shape every content repository exposes for the dashboard.
type Counter interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type CategoryCounter interface {
	Counter
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

type MessageStatser interface {
	Stats(ctx context.Context) (*messages.Stats, error)
}

type GitHubSource interface {
	RepoCount(ctx context.Context) (int, error)
	User(ctx context.Context) (*github.Profile, error)
}

type ResourceStats struct {
	Total  int64 `json:"total"`
	Recent int64 `json:"recent"`
}

type SkillStats struct {
	ResourceStats
	ByCategory map[string]int64 `json:"byCategory"`
}

type MessageStats struct {
	Total        int64   `json:"total"`
	Unread       int64   `json:"unread"`
	Recent       int64   `json:"recent"`
	ResponseRate float64 `json:"responseRate"`
}

type GitHubStats struct {
	Repos     int `json:"repos"`
	Followers int `json:"followers"`
	Following int `json:"following"`
}

type Dashboard struct {
	Projects    ResourceStats `json:"projects"`
	Skills      SkillStats    `json:"skills"`
	Journey     ResourceStats `json:"journey"`
	Highlights  ResourceStats `json:"highlights"`
	Messages    MessageStats  `json:"messages"`
	GitHub      GitHubStats   `json:"github"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

type Service struct {
	projects   Counter
	skills     CategoryCounter
	journey    Counter
	highlights Counter
	messages   MessageStatser
	github     GitHubSource
}

func NewService(projects Counter, skills CategoryCounter, journey, highlights Counter,
	msgs MessageStatser, gh GitHubSource) *Service {
	return &Service{
		projects:   projects,
		skills:     skills,
		journey:    journey,
		highlights: highlights,
		messages:   msgs,
		github:     gh,
	}
}

// Collect fans the source queries out concurrently. Content resources use a
// 30-day recency window; messages and highlights use 7 days.
func (s *Service) Collect(ctx context.Context) *Dashboard {
	now := time.Now()
	since30 := now.AddDate(0, 0, -30)
	since7 := now.AddDate(0, 0, -7)

	d := &Dashboard{GeneratedAt: now}
	var wg sync.WaitGroup

	count := func(name string, src Counter, since time.Time, dst *ResourceStats) {
		defer wg.Done()
		total, err := src.Count(ctx)
		if err != nil {
			log.Printf("[warn] dashboard %s count: %v", name, err)
			return
		}
		recent, err := src.CountSince(ctx, since)
		if err != nil {
			log.Printf("[warn] dashboard %s recent count: %v", name, err)
		}
		dst.Total, dst.Recent = total, recent
	}

	wg.Add(6)
	go count("projects", s.projects, since30, &d.Projects)
	go count("journey", s.journey, since30, &d.Journey)
	go count("highlights", s.highlights, since7, &d.Highlights)

	go func() {
		defer wg.Done()
		count2 := func() {
			total, err := s.skills.Count(ctx)
			if err != nil {
				log.Printf("[warn] dashboard skills count: %v", err)
				return
			}
			recent, err := s.skills.CountSince(ctx, since30)
			if err != nil {
				log.Printf("[warn] dashboard skills recent count: %v", err)
			}
			d.Skills.Total, d.Skills.Recent = total, recent
		}
		count2()
		byCat, err := s.skills.CategoryCounts(ctx)
		if err != nil {
			log.Printf("[warn] dashboard skill categories: %v", err)
			byCat = map[string]int64{}
		}
		d.Skills.ByCategory = byCat
	}()

	go func() {
		defer wg.Done()
		ms, err := s.messages.Stats(ctx)
		if err != nil {
			log.Printf("[warn] dashboard message stats: %v", err)
			return
		}
		d.Messages = MessageStats{
			Total:        ms.Total,
			Unread:       ms.Unread,
			Recent:       ms.RecentLast7,
			ResponseRate: ms.ResponseRate,
		}
	}()

	go func() {
		defer wg.Done()
		if s.github == nil {
			return
		}
		repos, err := s.github.RepoCount(ctx)
		if err != nil {
			log.Printf("[warn] dashboard github repo count: %v", err)
		} else {
			d.GitHub.Repos = repos
		}
		profile, err := s.github.User(ctx)
		if err != nil {
			log.Printf("[warn] dashboard github profile: %v", err)
		} else {
			d.GitHub.Followers = profile.Followers
			d.GitHub.Following = profile.Following
		}
	}()

	wg.Wait()
	return d
}
