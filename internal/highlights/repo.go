package highlights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("highlight not found")
	ErrDuplicateOrder = errors.New("display order already exists")
)

var Categories = []string{
	"ui-design", "ux-research", "mobile-app", "web-design", "branding",
	"prototype", "wireframe", "user-testing", "other",
}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type Highlight struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	Images           []string   `json:"images"`
	Category         string     `json:"category"`
	Tools            []string   `json:"tools"`
	ProjectURL       string     `json:"projectUrl,omitempty"`
	Tags             []string   `json:"tags"`
	Featured         bool       `json:"featured"`
	IsActive         bool       `json:"isActive"`
	DisplayOrder     int        `json:"displayOrder"`
	CompletionDate   *time.Time `json:"completionDate,omitempty"`
	ClientName       string     `json:"clientName,omitempty"`
	Views            int        `json:"views"`
	Likes            int        `json:"likes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type CreateInput struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description" binding:"required"`
	ShortDescription string     `json:"shortDescription"`
	ImageURL         string     `json:"imageUrl"`
	Images           []string   `json:"images"`
	Category         string     `json:"category" binding:"required"`
	Tools            []string   `json:"tools"`
	ProjectURL       string     `json:"projectUrl"`
	Tags             []string   `json:"tags"`
	Featured         *bool      `json:"featured"`
	IsActive         *bool      `json:"isActive"`
	DisplayOrder     *int       `json:"displayOrder"`
	CompletionDate   *time.Time `json:"completionDate"`
	ClientName       string     `json:"clientName"`
}

type UpdateInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"shortDescription"`
	ImageURL         *string    `json:"imageUrl"`
	Images           []string   `json:"images"`
	Category         *string    `json:"category"`
	Tools            []string   `json:"tools"`
	ProjectURL       *string    `json:"projectUrl"`
	Tags             []string   `json:"tags"`
	Featured         *bool      `json:"featured"`
	IsActive         *bool      `json:"isActive"`
	DisplayOrder     *int       `json:"displayOrder"`
	CompletionDate   *time.Time `json:"completionDate"`
	ClientName       *string    `json:"clientName"`
}

type ListFilter struct {
	Category string
	Featured *bool
	// ActiveOnly hides inactive highlights on the public routes; IsActive is
	// the admin console's explicit filter over both states.
	ActiveOnly bool
	IsActive   *bool
	Search     string
	Limit      int
	Offset     int
}

// Grouped is the public shape: one bucket per category, in display order.
type Grouped struct {
	Category   string      `json:"category"`
	Highlights []Highlight `json:"highlights"`
}

type Stats struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	Featured     int64            `json:"featured"`
	TotalViews   int64            `json:"totalViews"`
	TotalLikes   int64            `json:"totalLikes"`
	ByCategory   map[string]int64 `json:"byCategory"`
	RecentLast30 int64            `json:"recentLast30Days"`
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const highlightCols = `id, title, description, short_description, image_url, images,
	category, tools, project_url, tags, featured, is_active, display_order,
	completion_date, client_name, views, likes, created_at, updated_at`

func scanHighlight(row pgx.Row) (*Highlight, error) {
	var h Highlight
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.ShortDescription, &h.ImageURL,
		&h.Images, &h.Category, &h.Tools, &h.ProjectURL, &h.Tags, &h.Featured,
		&h.IsActive, &h.DisplayOrder, &h.CompletionDate, &h.ClientName,
		&h.Views, &h.Likes, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if h.Images == nil {
		h.Images = []string{}
	}
	if h.Tools == nil {
		h.Tools = []string{}
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}
	return &h, nil
}

func isOrderConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Highlight, int64, error) {
	where := []string{}
	args := []interface{}{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		where = append(where, fmt.Sprintf("featured = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "is_active")
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(title ilike $%d or description ilike $%d or category ilike $%d)", n, n, n))
	}
	cond := ""
	if len(where) > 0 {
		cond = "where " + strings.Join(where, " and ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("select count(*) from highlights %s", cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count highlights: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf("select %s from highlights %s order by display_order limit $%d offset $%d",
		highlightCols, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list highlights: %w", err)
	}
	defer rows.Close()

	out := []Highlight{}
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *h)
	}
	return out, total, rows.Err()
}

// ListGrouped buckets active highlights per category in canonical order.
func (r *Repo) ListGrouped(ctx context.Context) ([]Grouped, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"select %s from highlights where is_active order by display_order", highlightCols))
	if err != nil {
		return nil, fmt.Errorf("list highlights grouped: %w", err)
	}
	defer rows.Close()

	byCat := map[string][]Highlight{}
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		byCat[h.Category] = append(byCat[h.Category], *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := []Grouped{}
	for _, cat := range Categories {
		if hs, ok := byCat[cat]; ok {
			out = append(out, Grouped{Category: cat, Highlights: hs})
		}
	}
	return out, nil
}

// ListFeatured returns up to limit active featured highlights.
func (r *Repo) ListFeatured(ctx context.Context, limit int) ([]Highlight, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"select %s from highlights where is_active and featured order by display_order limit $1",
		highlightCols), limit)
	if err != nil {
		return nil, fmt.Errorf("list featured highlights: %w", err)
	}
	defer rows.Close()

	out := []Highlight{}
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Highlight, error) {
	return scanHighlight(r.pool.QueryRow(ctx,
		fmt.Sprintf("select %s from highlights where id = $1", highlightCols), id))
}

// GetActive fetches a highlight for the public site and bumps its view
// counter. Inactive highlights are reported as missing, not forbidden.
func (r *Repo) GetActive(ctx context.Context, id int64) (*Highlight, error) {
	return scanHighlight(r.pool.QueryRow(ctx, fmt.Sprintf(
		`update highlights set views = views + 1 where id = $1 and is_active
		 returning %s`, highlightCols), id))
}

func (r *Repo) NextOrder(ctx context.Context) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		"select coalesce(max(display_order), 0) + 1 from highlights").Scan(&next)
	return next, err
}

func (r *Repo) Create(ctx context.Context, in CreateInput, adminID int64) (*Highlight, error) {
	order := 0
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	} else {
		var err error
		order, err = r.NextOrder(ctx)
		if err != nil {
			return nil, fmt.Errorf("next highlight order: %w", err)
		}
	}
	featured := false
	if in.Featured != nil {
		featured = *in.Featured
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	if in.Tools == nil {
		in.Tools = []string{}
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `insert into highlights
		(title, description, short_description, image_url, images, category,
		 tools, project_url, tags, featured, is_active, display_order,
		 completion_date, client_name, created_by, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
		returning id`,
		in.Title, in.Description, in.ShortDescription, in.ImageURL, in.Images,
		in.Category, in.Tools, in.ProjectURL, in.Tags, featured, active, order,
		in.CompletionDate, in.ClientName, adminID).Scan(&id)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create highlight: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Highlight, error) {
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
	if in.ImageURL != nil {
		set("image_url", *in.ImageURL)
	}
	if in.Images != nil {
		set("images", in.Images)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if in.Tools != nil {
		set("tools", in.Tools)
	}
	if in.ProjectURL != nil {
		set("project_url", *in.ProjectURL)
	}
	if in.Tags != nil {
		set("tags", in.Tags)
	}
	if in.Featured != nil {
		set("featured", *in.Featured)
	}
	if in.IsActive != nil {
		set("is_active", *in.IsActive)
	}
	if in.DisplayOrder != nil {
		set("display_order", *in.DisplayOrder)
	}
	if in.CompletionDate != nil {
		set("completion_date", *in.CompletionDate)
	}
	if in.ClientName != nil {
		set("client_name", *in.ClientName)
	}

	args = append(args, id)
	q := fmt.Sprintf("update highlights set %s where id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update highlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from highlights where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) toggle(ctx context.Context, id, adminID int64, col string) (*Highlight, error) {
	q := fmt.Sprintf(
		"update highlights set %s = not %s, updated_by = $2, updated_at = now() where id = $1",
		col, col)
	tag, err := r.pool.Exec(ctx, q, id, adminID)
	if err != nil {
		return nil, fmt.Errorf("toggle highlight %s: %w", col, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) ToggleFeatured(ctx context.Context, id, adminID int64) (*Highlight, error) {
	return r.toggle(ctx, id, adminID, "featured")
}

func (r *Repo) ToggleActive(ctx context.Context, id, adminID int64) (*Highlight, error) {
	return r.toggle(ctx, id, adminID, "is_active")
}

func (r *Repo) BulkUpdate(ctx context.Context, ids []int64, col string, val bool, adminID int64) (int64, error) {
	q := fmt.Sprintf(
		"update highlights set %s = $2, updated_by = $3, updated_at = now() where id = any($1)", col)
	tag, err := r.pool.Exec(ctx, q, ids, val, adminID)
	if err != nil {
		return 0, fmt.Errorf("bulk update highlights: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, "delete from highlights where id = any($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete highlights: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Reorder rewrites the gallery ordering in one transaction; display_order
// becomes the 1-indexed position in ids. Deferred constraint, checked at commit.
func (r *Repo) Reorder(ctx context.Context, ids []int64, adminID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			"update highlights set display_order = $2, updated_by = $3, updated_at = now() where id = $1",
			id, i+1, adminID)
		if err != nil {
			return fmt.Errorf("reorder highlight %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}
	if err := tx.Commit(ctx); err != nil {
		if isOrderConflict(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	s := Stats{ByCategory: map[string]int64{}}
	err := r.pool.QueryRow(ctx, `select count(*),
		count(*) filter (where is_active),
		count(*) filter (where featured),
		coalesce(sum(views), 0), coalesce(sum(likes), 0),
		count(*) filter (where created_at >= now() - interval '30 days')
		from highlights`).Scan(&s.Total, &s.Active, &s.Featured,
		&s.TotalViews, &s.TotalLikes, &s.RecentLast30)
	if err != nil {
		return nil, fmt.Errorf("highlight stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, "select category, count(*) from highlights group by category")
	if err != nil {
		return nil, fmt.Errorf("highlight stats by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		s.ByCategory[cat] = n
	}
	return &s, rows.Err()
}

func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from highlights where created_at >= $1", since).Scan(&n)
	return n, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from highlights").Scan(&n)
	return n, err
}
