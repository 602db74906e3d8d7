package resumes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("resume not found")
	ErrDuplicateVersion = errors.New("resume version already exists")
)

// Resume metadata. The file blob itself is only ever loaded by Download;
// list and detail queries leave file_data out on purpose.
type Resume struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	OriginalName  string    `json:"originalName"`
	ContentType   string    `json:"contentType"`
	FileSize      int       `json:"fileSize"`
	Version       string    `json:"version"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	IsPublic      bool      `json:"isPublic"`
	DownloadCount int       `json:"downloadCount"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type File struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

type UploadInput struct {
	Title        string
	OriginalName string
	ContentType  string
	Data         []byte
	Version      string
	Description  string
	Tags         []string
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const resumeCols = `id, title, original_name, content_type, file_size, version,
	description, is_active, is_public, download_count, tags, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.Title, &r.OriginalName, &r.ContentType, &r.FileSize,
		&r.Version, &r.Description, &r.IsActive, &r.IsPublic, &r.DownloadCount,
		&r.Tags, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return &r, nil
}

func (r *Repo) Upload(ctx context.Context, in UploadInput, adminID int64) (*Resume, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`insert into resumes
		(title, original_name, file_data, content_type, file_size, version,
		 description, tags, created_by, updated_by)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		returning %s`, resumeCols),
		in.Title, in.OriginalName, in.Data, in.ContentType, len(in.Data),
		in.Version, in.Description, in.Tags, adminID)
	res, err := scanResume(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateVersion
		}
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	return res, nil
}

func (r *Repo) List(ctx context.Context, publicOnly bool) ([]Resume, error) {
	cond := ""
	if publicOnly {
		cond = "where is_public and is_active"
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"select %s from resumes %s order by created_at desc", resumeCols, cond))
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Active returns the newest active public resume.
func (r *Repo) Active(ctx context.Context) (*Resume, error) {
	return scanResume(r.pool.QueryRow(ctx, fmt.Sprintf(
		`select %s from resumes where is_active and is_public
		 order by created_at desc limit 1`, resumeCols)))
}

// Download loads the blob for a public, active resume and bumps the
// download counter in the same statement.
func (r *Repo) Download(ctx context.Context, id int64) (*File, error) {
	var f File
	err := r.pool.QueryRow(ctx,
		`update resumes set download_count = download_count + 1
		 where id = $1 and is_active and is_public
		 returning original_name, content_type, file_data`,
		id).Scan(&f.OriginalName, &f.ContentType, &f.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download resume: %w", err)
	}
	return &f, nil
}

func (r *Repo) toggle(ctx context.Context, id, adminID int64, col string) (*Resume, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`update resumes set %s = not %s, updated_by = $2, updated_at = now()
		 where id = $1 returning %s`, col, col, resumeCols), id, adminID)
	return scanResume(row)
}

func (r *Repo) ToggleActive(ctx context.Context, id, adminID int64) (*Resume, error) {
	return r.toggle(ctx, id, adminID, "is_active")
}

func (r *Repo) TogglePublic(ctx context.Context, id, adminID int64) (*Resume, error) {
	return r.toggle(ctx, id, adminID, "is_public")
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "delete from resumes where id = $1", id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
