package skills

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
	ErrNotFound       = errors.New("skill not found")
	ErrDuplicateOrder = errors.New("display order already exists for this category")
)

var Categories = []string{
	"frontend", "backend", "database", "devops", "tools",
	"languages", "frameworks", "cloud", "mobile", "uiux", "other",
}

var Proficiencies = []string{"beginner", "intermediate", "advanced", "expert"}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

func ValidProficiency(s string) bool {
	for _, p := range Proficiencies {
		if p == s {
			return true
		}
	}
	return false
}

type Skill struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Proficiency       string    `json:"proficiency"`
	ProficiencyLevel  int       `json:"proficiencyLevel"`
	Description       string    `json:"description,omitempty"`
	Icon              Icon      `json:"icon"`
	Color             string    `json:"color,omitempty"`
	DisplayOrder      int       `json:"displayOrder"`
	IsActive          bool      `json:"isActive"`
	YearsOfExperience int       `json:"yearsOfExperience"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name              string `json:"name" binding:"required"`
	Category          string `json:"category" binding:"required"`
	Proficiency       string `json:"proficiency" binding:"required"`
	ProficiencyLevel  *int   `json:"proficiencyLevel" binding:"required"`
	Description       string `json:"description"`
	Icon              *Icon  `json:"icon"`
	Color             string `json:"color"`
	DisplayOrder      *int   `json:"displayOrder"`
	IsActive          *bool  `json:"isActive"`
	YearsOfExperience *int   `json:"yearsOfExperience"`
}

type UpdateInput struct {
	Name              *string `json:"name"`
	Category          *string `json:"category"`
	Proficiency       *string `json:"proficiency"`
	ProficiencyLevel  *int    `json:"proficiencyLevel"`
	Description       *string `json:"description"`
	Icon              *Icon   `json:"icon"`
	Color             *string `json:"color"`
	DisplayOrder      *int    `json:"displayOrder"`
	IsActive          *bool   `json:"isActive"`
	YearsOfExperience *int    `json:"yearsOfExperience"`
}

type ListFilter struct {
	Category    string
	Proficiency string
	// ActiveOnly hides inactive skills on the public routes; IsActive is the
	// admin console's explicit filter over both states.
	ActiveOnly bool
	IsActive   *bool
	Search     string
	Limit      int
	Offset     int
}

// Grouped is the public shape: one bucket per category, skills in display order.
type Grouped struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

type Stats struct {
	Total          int64            `json:"total"`
	Active         int64            `json:"active"`
	ByCategory     map[string]int64 `json:"byCategory"`
	ByProficiency  map[string]int64 `json:"byProficiency"`
	AvgProficiency float64          `json:"avgProficiencyLevel"`
	RecentLast30   int64            `json:"recentLast30Days"`
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const skillCols = `id, name, category, proficiency, proficiency_level, description,
	icon_library, icon_name, icon_size, icon_class, color, display_order,
	is_active, years_of_experience, created_at, updated_at`

func scanSkill(row pgx.Row) (*Skill, error) {
	var s Skill
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Proficiency, &s.ProficiencyLevel,
		&s.Description, &s.Icon.Library, &s.Icon.Name, &s.Icon.Size, &s.Icon.Class,
		&s.Color, &s.DisplayOrder, &s.IsActive, &s.YearsOfExperience,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func isOrderConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Skill, int64, error) {
	where := []string{}
	args := []interface{}{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Proficiency != "" {
		args = append(args, f.Proficiency)
		where = append(where, fmt.Sprintf("proficiency = $%d", len(args)))
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
			"(name ilike $%d or description ilike $%d or category ilike $%d)", n, n, n))
	}
	cond := ""
	if len(where) > 0 {
		cond = "where " + strings.Join(where, " and ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("select count(*) from skills %s", cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count skills: %w", err)
	}

	page := ""
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		page = fmt.Sprintf("limit $%d offset $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"select %s from skills %s order by category, display_order %s", skillCols, cond, page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	out := []Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

// ListGrouped buckets the active skills per category, keeping the canonical
// category order rather than alphabetical.
func (r *Repo) ListGrouped(ctx context.Context) ([]Grouped, error) {
	all, _, err := r.List(ctx, ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	byCat := map[string][]Skill{}
	for _, s := range all {
		byCat[s.Category] = append(byCat[s.Category], s)
	}
	out := []Grouped{}
	for _, cat := range Categories {
		if skills, ok := byCat[cat]; ok {
			out = append(out, Grouped{Category: cat, Skills: skills})
		}
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Skill, error) {
	return scanSkill(r.pool.QueryRow(ctx,
		fmt.Sprintf("select %s from skills where id = $1", skillCols), id))
}

// GetActive is the public detail lookup: an inactive skill is not found.
func (r *Repo) GetActive(ctx context.Context, id int64) (*Skill, error) {
	return scanSkill(r.pool.QueryRow(ctx,
		fmt.Sprintf("select %s from skills where id = $1 and is_active", skillCols), id))
}

// NextOrder returns max(display_order)+1 within a category, 1 for an empty
// one. Read-then-insert is racy; the loser of a race gets the unique
// violation and a 400.
func (r *Repo) NextOrder(ctx context.Context, category string) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		"select coalesce(max(display_order), 0) + 1 from skills where category = $1",
		category).Scan(&next)
	return next, err
}

func (r *Repo) Create(ctx context.Context, in CreateInput, adminID int64) (*Skill, error) {
	order := 0
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	} else {
		var err error
		order, err = r.NextOrder(ctx, in.Category)
		if err != nil {
			return nil, fmt.Errorf("next skill order: %w", err)
		}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	years := 0
	if in.YearsOfExperience != nil {
		years = *in.YearsOfExperience
	}
	icon := Icon{Size: 24}
	if in.Icon != nil {
		icon = *in.Icon
		if icon.Size == 0 {
			icon.Size = 24
		}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `insert into skills
		(name, category, proficiency, proficiency_level, description,
		 icon_library, icon_name, icon_size, icon_class, color,
		 display_order, is_active, years_of_experience, created_by, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		returning id`,
		in.Name, in.Category, in.Proficiency, *in.ProficiencyLevel, in.Description,
		icon.Library, icon.Name, icon.Size, icon.Class, in.Color,
		order, active, years, adminID).Scan(&id)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Skill, error) {
	sets := []string{"updated_at = now()", "updated_by = $1"}
	args := []interface{}{adminID}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if in.Proficiency != nil {
		set("proficiency", *in.Proficiency)
	}
	if in.ProficiencyLevel != nil {
		set("proficiency_level", *in.ProficiencyLevel)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Icon != nil {
		set("icon_library", in.Icon.Library)
		set("icon_name", in.Icon.Name)
		size := in.Icon.Size
		if size == 0 {
			size = 24
		}
		set("icon_size", size)
		set("icon_class", in.Icon.Class)
	}
	if in.Color != nil {
		set("color", *in.Color)
	}
	if in.DisplayOrder != nil {
		set("display_order", *in.DisplayOrder)
	}
	if in.IsActive != nil {
		set("is_active", *in.IsActive)
	}
	if in.YearsOfExperience != nil {
		set("years_of_experience", *in.YearsOfExperience)
	}

	args = append(args, id)
	q := fmt.Sprintf("update skills set %s where id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from skills where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleActive flips visibility and returns the updated skill.
func (r *Repo) ToggleActive(ctx context.Context, id, adminID int64) (*Skill, error) {
	tag, err := r.pool.Exec(ctx,
		"update skills set is_active = not is_active, updated_by = $2, updated_at = now() where id = $1",
		id, adminID)
	if err != nil {
		return nil, fmt.Errorf("toggle skill active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) BulkSetActive(ctx context.Context, ids []int64, active bool, adminID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"update skills set is_active = $2, updated_by = $3, updated_at = now() where id = any($1)",
		ids, active, adminID)
	if err != nil {
		return 0, fmt.Errorf("bulk set skills active: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, "delete from skills where id = any($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete skills: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Reorder rewrites the ordering of one category in a single transaction:
// each skill gets display_order = its 1-indexed position in ids. The unique
// constraint is deferred to commit, so intermediate duplicates inside the
// transaction are fine; either the whole ordering lands or none of it does.
func (r *Repo) Reorder(ctx context.Context, category string, ids []int64, adminID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			`update skills set display_order = $3, updated_by = $4, updated_at = now()
			 where id = $1 and category = $2`,
			id, category, i+1, adminID)
		if err != nil {
			return fmt.Errorf("reorder skill %d: %w", id, err)
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
	s := Stats{ByCategory: map[string]int64{}, ByProficiency: map[string]int64{}}
	err := r.pool.QueryRow(ctx, `select count(*),
		count(*) filter (where is_active),
		coalesce(avg(proficiency_level), 0),
		count(*) filter (where created_at >= now() - interval '30 days')
		from skills`).Scan(&s.Total, &s.Active, &s.AvgProficiency, &s.RecentLast30)
	if err != nil {
		return nil, fmt.Errorf("skill stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, "select category, proficiency, count(*) from skills group by category, proficiency")
	if err != nil {
		return nil, fmt.Errorf("skill stats breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat, prof string
		var n int64
		if err := rows.Scan(&cat, &prof, &n); err != nil {
			return nil, err
		}
		s.ByCategory[cat] += n
		s.ByProficiency[prof] += n
	}
	return &s, rows.Err()
}

func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from skills where created_at >= $1", since).Scan(&n)
	return n, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from skills").Scan(&n)
	return n, err
}

// CategoryCounts feeds the dashboard breakdown.
func (r *Repo) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, "select category, count(*) from skills group by category")
	if err != nil {
		return nil, fmt.Errorf("skill category counts: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
	}
	return out, rows.Err()
}
