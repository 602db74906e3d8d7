package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
)

var ErrNotFound = errors.New("project not found")

// Categories accepted for a project. Anything else is rejected at the handler.
var Categories = []string{"Web", "UI", "Fullstack", "Research", "Mobile", "Desktop", "API", "Other"}

var Statuses = []string{"completed", "in-progress", "on-hold", "cancelled"}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

type Project struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"shortDescription,omitempty"`
	Technologies     []string    `json:"technologies"`
	ImageURL         string      `json:"imageUrl"`
	GithubURL        string      `json:"githubUrl,omitempty"`
	LiveURL          string      `json:"liveUrl,omitempty"`
	Category         string      `json:"category"`
	Featured         bool        `json:"featured"`
	Status           string      `json:"status"`
	Priority         int         `json:"priority"`
	CompletionDate   time.Time   `json:"completionDate"`
	Tags             []string    `json:"tags"`
	AgeDays          int         `json:"ageDays"`
	CreatedBy        *admins.Ref `json:"createdBy,omitempty"`
	UpdatedBy        *admins.Ref `json:"updatedBy,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type CreateInput struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description" binding:"required"`
	ShortDescription string     `json:"shortDescription"`
	Technologies     []string   `json:"technologies" binding:"required"`
	ImageURL         string     `json:"imageUrl" binding:"required"`
	GithubURL        string     `json:"githubUrl"`
	LiveURL          string     `json:"liveUrl"`
	Category         string     `json:"category" binding:"required"`
	Featured         *bool      `json:"featured"`
	Status           string     `json:"status"`
	Priority         *int       `json:"priority"`
	CompletionDate   *time.Time `json:"completionDate"`
	Tags             []string   `json:"tags"`
}

type UpdateInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"shortDescription"`
	Technologies     []string   `json:"technologies"`
	ImageURL         *string    `json:"imageUrl"`
	GithubURL        *string    `json:"githubUrl"`
	LiveURL          *string    `json:"liveUrl"`
	Category         *string    `json:"category"`
	Featured         *bool      `json:"featured"`
	Status           *string    `json:"status"`
	Priority         *int       `json:"priority"`
	CompletionDate   *time.Time `json:"completionDate"`
	Tags             []string   `json:"tags"`
}

type ListFilter struct {
	Category string
	Featured *bool
	// Sort selects the list ordering: the public site shows work by
	// completion date, the admin console by creation date.
	Sort   string
	Limit  int
	Offset int
}

const (
	SortByCompletion = "completion"
	SortByCreated    = "created"
)

func listOrder(sort string) string {
	if sort == SortByCreated {
		return "order by p.created_at desc"
	}
	return "order by p.completion_date desc"
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Stats struct {
	Total      int64           `json:"total"`
	Featured   int64           `json:"featured"`
	RecentLast int64           `json:"recentLast30Days"`
	ByCategory []CategoryCount `json:"byCategory"`
	ByStatus   []CategoryCount `json:"byStatus"`
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const projectCols = `p.id, p.title, p.description, p.short_description, p.technologies,
	p.image_url, p.github_url, p.live_url, p.category, p.featured, p.status,
	p.priority, p.completion_date, p.tags, p.created_at, p.updated_at,
	ca.id, ca.username, ca.email, ua.id, ua.username, ua.email`

const projectJoin = `from projects p
	left join admins ca on ca.id = p.created_by
	left join admins ua on ua.id = p.updated_by`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	var caID, uaID *int64
	var caUser, caEmail, uaUser, uaEmail *string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ShortDescription, &p.Technologies,
		&p.ImageURL, &p.GithubURL, &p.LiveURL, &p.Category, &p.Featured, &p.Status,
		&p.Priority, &p.CompletionDate, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
		&caID, &caUser, &caEmail, &uaID, &uaUser, &uaEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if caID != nil {
		p.CreatedBy = &admins.Ref{ID: *caID, Username: *caUser, Email: *caEmail}
	}
	if uaID != nil {
		p.UpdatedBy = &admins.Ref{ID: *uaID, Username: *uaUser, Email: *uaEmail}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.AgeDays = int(time.Since(p.CompletionDate).Hours() / 24)
	return &p, nil
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Project, int64, error) {
	where := []string{}
	args := []interface{}{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		where = append(where, fmt.Sprintf("p.featured = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = "where " + strings.Join(where, " and ")
	}

	var total int64
	countQ := fmt.Sprintf("select count(*) from projects p %s", cond)
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`select %s %s %s
		%s
		limit $%d offset $%d`, projectCols, projectJoin, cond, listOrder(f.Sort), len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Project, error) {
	q := fmt.Sprintf("select %s %s where p.id = $1", projectCols, projectJoin)
	return scanProject(r.pool.QueryRow(ctx, q, id))
}

func (r *Repo) Create(ctx context.Context, in CreateInput, adminID int64) (*Project, error) {
	featured := false
	if in.Featured != nil {
		featured = *in.Featured
	}
	status := "completed"
	if in.Status != "" {
		status = in.Status
	}
	priority := 0
	if in.Priority != nil {
		priority = *in.Priority
	}
	completion := time.Now()
	if in.CompletionDate != nil {
		completion = *in.CompletionDate
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `insert into projects
		(title, description, short_description, technologies, image_url, github_url,
		 live_url, category, featured, status, priority, completion_date, tags,
		 created_by, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		returning id`,
		in.Title, in.Description, in.ShortDescription, in.Technologies, in.ImageURL,
		in.GithubURL, in.LiveURL, in.Category, featured, status, priority,
		completion, in.Tags, adminID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Project, error) {
	sets := []string{"updated_at = now()", "updated_by = $1"}
	args := []interface{}{adminID}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Title != nil {
		set("title", *in.Title)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.ShortDescription != nil {
		set("short_description", *in.ShortDescription)
	}
	if in.Technologies != nil {
		set("technologies", in.Technologies)
	}
	if in.ImageURL != nil {
		set("image_url", *in.ImageURL)
	}
	if in.GithubURL != nil {
		set("github_url", *in.GithubURL)
	}
	if in.LiveURL != nil {
		set("live_url", *in.LiveURL)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if in.Featured != nil {
		set("featured", *in.Featured)
	}
	if in.Status != nil {
		set("status", *in.Status)
	}
	if in.Priority != nil {
		set("priority", *in.Priority)
	}
	if in.CompletionDate != nil {
		set("completion_date", *in.CompletionDate)
	}
	if in.Tags != nil {
		set("tags", in.Tags)
	}

	args = append(args, id)
	q := fmt.Sprintf("update projects set %s where id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from projects where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFeatured flips the featured flag and returns the updated project.
func (r *Repo) ToggleFeatured(ctx context.Context, id, adminID int64) (*Project, error) {
	tag, err := r.pool.Exec(ctx,
		"update projects set featured = not featured, updated_by = $2, updated_at = now() where id = $1",
		id, adminID)
	if err != nil {
		return nil, fmt.Errorf("toggle featured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) BulkSetFeatured(ctx context.Context, ids []int64, featured bool, adminID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"update projects set featured = $2, updated_by = $3, updated_at = now() where id = any($1)",
		ids, featured, adminID)
	if err != nil {
		return 0, fmt.Errorf("bulk set featured: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, "delete from projects where id = any($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete projects: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DistinctCategories lists categories that currently have at least one project.
func (r *Repo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "select distinct category from projects order by category")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `select count(*),
		count(*) filter (where featured),
		count(*) filter (where created_at >= now() - interval '30 days')
		from projects`).Scan(&s.Total, &s.Featured, &s.RecentLast)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}

	s.ByCategory, err = r.groupCount(ctx, "category")
	if err != nil {
		return nil, err
	}
	s.ByStatus, err = r.groupCount(ctx, "status")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) groupCount(ctx context.Context, col string) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("select %s, count(*) from projects group by %s order by count(*) desc", col, col))
	if err != nil {
		return nil, fmt.Errorf("project stats by %s: %w", col, err)
	}
	defer rows.Close()

	out := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountSince is used by the dashboard aggregator.
func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from projects where created_at >= $1", since).Scan(&n)
	return n, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from projects").Scan(&n)
	return n, err
}
