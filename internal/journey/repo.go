package journey

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
	ErrNotFound       = errors.New("journey entry not found")
	ErrDuplicateOrder = errors.New("display order already exists")
)

type Entry struct {
	ID           int64     `json:"id"`
	Year         int       `json:"year"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Year         *int   `json:"year" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	DisplayOrder *int   `json:"displayOrder"`
}

type UpdateInput struct {
	Year         *int    `json:"year"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"displayOrder"`
}

type Stats struct {
	Total        int64 `json:"total"`
	EarliestYear int   `json:"earliestYear"`
	LatestYear   int   `json:"latestYear"`
	RecentLast30 int64 `json:"recentLast30Days"`
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryCols = `id, year, title, description, display_order, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Year, &e.Title, &e.Description, &e.DisplayOrder,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func isOrderConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repo) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("select %s from journeys order by display_order", entryCols))
	if err != nil {
		return nil, fmt.Errorf("list journey: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx,
		fmt.Sprintf("select %s from journeys where id = $1", entryCols), id))
}

// NextOrder returns max(display_order)+1, 1 when the timeline is empty.
func (r *Repo) NextOrder(ctx context.Context) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		"select coalesce(max(display_order), 0) + 1 from journeys").Scan(&next)
	return next, err
}

func (r *Repo) Create(ctx context.Context, in CreateInput, adminID int64) (*Entry, error) {
	order := 0
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	} else {
		var err error
		order, err = r.NextOrder(ctx)
		if err != nil {
			return nil, fmt.Errorf("next journey order: %w", err)
		}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `insert into journeys
		(year, title, description, display_order, created_by, updated_by)
		values ($1,$2,$3,$4,$5,$5)
		returning id`,
		*in.Year, in.Title, in.Description, order, adminID).Scan(&id)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create journey entry: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Entry, error) {
	sets := []string{"updated_at = now()", "updated_by = $1"}
	args := []interface{}{adminID}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Year != nil {
		set("year", *in.Year)
	}
	if in.Title != nil {
		set("title", *in.Title)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.DisplayOrder != nil {
		set("display_order", *in.DisplayOrder)
	}

	args = append(args, id)
	q := fmt.Sprintf("update journeys set %s where id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		if isOrderConflict(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update journey entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from journeys where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete journey entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder rewrites the whole timeline ordering in one transaction; each
// entry gets display_order = its 1-indexed position in ids. The deferred
// unique constraint is only checked at commit.
func (r *Repo) Reorder(ctx context.Context, ids []int64, adminID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			"update journeys set display_order = $2, updated_by = $3, updated_at = now() where id = $1",
			id, i+1, adminID)
		if err != nil {
			return fmt.Errorf("reorder journey entry %d: %w", id, err)
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
	var s Stats
	err := r.pool.QueryRow(ctx, `select count(*),
		coalesce(min(year), 0), coalesce(max(year), 0),
		count(*) filter (where created_at >= now() - interval '30 days')
		from journeys`).Scan(&s.Total, &s.EarliestYear, &s.LatestYear, &s.RecentLast30)
	if err != nil {
		return nil, fmt.Errorf("journey stats: %w", err)
	}
	return &s, nil
}

func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from journeys where created_at >= $1", since).Scan(&n)
	return n, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from journeys").Scan(&n)
	return n, err
}
