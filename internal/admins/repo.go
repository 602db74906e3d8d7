package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var ErrNotFound = errors.New("admin not found")

// ErrDuplicate reports a username or email collision.
var ErrDuplicate = errors.New("username or email already exists")

type Admin struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Ref is the shape embedded in createdBy/updatedBy fields of other resources.
type Ref struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const adminCols = `id, username, email, password_hash, role, is_active, last_login, created_at, updated_at`

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByLogin resolves a login identifier that may be either username or email.
func (r *Repo) FindByLogin(ctx context.Context, login string) (*Admin, error) {
	const q = `select ` + adminCols + ` from admins where username = $1 or email = $1;`
	return scanAdmin(r.db.QueryRow(ctx, q, login))
}

func (r *Repo) FindActiveByID(ctx context.Context, id int64) (*Admin, error) {
	const q = `select ` + adminCols + ` from admins where id = $1 and is_active;`
	return scanAdmin(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*Admin, error) {
	const q = `select ` + adminCols + ` from admins where id = $1;`
	return scanAdmin(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) Create(ctx context.Context, username, email, passwordHash, role string) (*Admin, error) {
	const q = `
insert into admins (username, email, password_hash, role)
values ($1, $2, $3, $4)
returning ` + adminCols + `;`
	a, err := scanAdmin(r.db.QueryRow(ctx, q, username, email, passwordHash, role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]Admin, error) {
	const q = `select ` + adminCols + ` from admins order by created_at desc;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Admin, 0, 8)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repo) SetStatus(ctx context.Context, id int64, active bool) (*Admin, error) {
	const q = `
update admins set is_active = $2, updated_at = now()
where id = $1
returning ` + adminCols + `;`
	return scanAdmin(r.db.QueryRow(ctx, q, id, active))
}

func (r *Repo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const q = `update admins set password_hash = $2, updated_at = now() where id = $1;`
	ct, err := r.db.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) TouchLastLogin(ctx context.Context, id int64) error {
	const q = `update admins set last_login = now(), updated_at = now() where id = $1;`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
