package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("message not found")

var Statuses = []string{"unread", "read", "replied"}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type Stats struct {
	Total        int64   `json:"total"`
	Unread       int64   `json:"unread"`
	Read         int64   `json:"read"`
	Replied      int64   `json:"replied"`
	RecentLast7  int64   `json:"recentLast7Days"`
	ResponseRate float64 `json:"responseRate"`
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const messageCols = `id, name, email, subject, message, status, created_at, updated_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, name, email, subject, body string) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, fmt.Sprintf(
		`insert into contact_messages (name, email, subject, message)
		 values ($1,$2,$3,$4) returning %s`, messageCols),
		name, email, subject, body))
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Message, int64, error) {
	where := []string{}
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ilike $%d or email ilike $%d or subject ilike $%d or message ilike $%d)",
			n, n, n, n))
	}
	cond := ""
	if len(where) > 0 {
		cond = "where " + strings.Join(where, " and ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("select count(*) from contact_messages %s", cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf("select %s from contact_messages %s order by created_at desc limit $%d offset $%d",
		messageCols, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx,
		fmt.Sprintf("select %s from contact_messages where id = $1", messageCols), id))
}

// GetAndMarkRead fetches a message, flipping unread to read in the same
// statement. Manually-set statuses (read, replied) are left alone.
func (r *Repo) GetAndMarkRead(ctx context.Context, id int64) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, fmt.Sprintf(
		`update contact_messages
		 set status = case when status = 'unread' then 'read' else status end,
		     updated_at = case when status = 'unread' then now() else updated_at end
		 where id = $1 returning %s`, messageCols), id))
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status string) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, fmt.Sprintf(
		`update contact_messages set status = $2, updated_at = now()
		 where id = $1 returning %s`, messageCols), id, status))
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from contact_messages where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) BulkSetStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"update contact_messages set status = $2, updated_at = now() where id = any($1)",
		ids, status)
	if err != nil {
		return 0, fmt.Errorf("bulk set message status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, "delete from contact_messages where id = any($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `select count(*),
		count(*) filter (where status = 'unread'),
		count(*) filter (where status = 'read'),
		count(*) filter (where status = 'replied'),
		count(*) filter (where created_at >= now() - interval '7 days')
		from contact_messages`).Scan(&s.Total, &s.Unread, &s.Read, &s.Replied, &s.RecentLast7)
	if err != nil {
		return nil, fmt.Errorf("message stats: %w", err)
	}
	s.ResponseRate = ResponseRate(s.Replied, s.Total)
	return &s, nil
}

// ResponseRate is the replied share as a percentage, 0 for an empty inbox.
func ResponseRate(replied, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(replied) / float64(total) * 100
}

func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from contact_messages where created_at >= $1", since).Scan(&n)
	return n, err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "select count(*) from contact_messages").Scan(&n)
	return n, err
}
