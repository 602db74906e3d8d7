package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The display_order uniqueness constraints are DEFERRABLE so a reorder can
// rewrite a whole ordering inside one transaction; the constraint is checked
// at commit, not per statement.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id            bigserial PRIMARY KEY,
	username      text NOT NULL UNIQUE,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	role          text NOT NULL DEFAULT 'admin' CHECK (role IN ('admin', 'super_admin')),
	is_active     boolean NOT NULL DEFAULT true,
	last_login    timestamptz,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projects (
	id                bigserial PRIMARY KEY,
	title             text NOT NULL,
	description       text NOT NULL,
	short_description text NOT NULL DEFAULT '',
	technologies      text[] NOT NULL DEFAULT '{}',
	image_url         text NOT NULL,
	github_url        text NOT NULL DEFAULT '',
	live_url          text NOT NULL DEFAULT '',
	category          text NOT NULL CHECK (category IN
		('Web', 'UI', 'Fullstack', 'Research', 'Mobile', 'Desktop', 'API', 'Other')),
	featured          boolean NOT NULL DEFAULT false,
	status            text NOT NULL DEFAULT 'completed' CHECK (status IN
		('completed', 'in-progress', 'on-hold', 'cancelled')),
	priority          int NOT NULL DEFAULT 0 CHECK (priority BETWEEN 0 AND 10),
	completion_date   timestamptz NOT NULL,
	tags              text[] NOT NULL DEFAULT '{}',
	created_by        bigint,
	updated_by        bigint,
	created_at        timestamptz NOT NULL DEFAULT now(),
	updated_at        timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS projects_category_featured_idx ON projects (category, featured);
CREATE INDEX IF NOT EXISTS projects_completion_date_idx ON projects (completion_date DESC);

CREATE TABLE IF NOT EXISTS skills (
	id                  bigserial PRIMARY KEY,
	name                text NOT NULL,
	category            text NOT NULL CHECK (category IN
		('frontend', 'backend', 'database', 'devops', 'tools', 'languages',
		 'frameworks', 'cloud', 'mobile', 'uiux', 'other')),
	proficiency         text NOT NULL CHECK (proficiency IN
		('beginner', 'intermediate', 'advanced', 'expert')),
	proficiency_level   int NOT NULL CHECK (proficiency_level BETWEEN 1 AND 100),
	description         text NOT NULL DEFAULT '',
	icon_library        text NOT NULL DEFAULT '',
	icon_name           text NOT NULL DEFAULT '',
	icon_size           int NOT NULL DEFAULT 24,
	icon_class          text NOT NULL DEFAULT '',
	color               text NOT NULL DEFAULT '',
	display_order       int NOT NULL,
	is_active           boolean NOT NULL DEFAULT true,
	years_of_experience int NOT NULL DEFAULT 0,
	created_by          bigint,
	updated_by          bigint,
	created_at          timestamptz NOT NULL DEFAULT now(),
	updated_at          timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT skills_category_display_order_key
		UNIQUE (category, display_order) DEFERRABLE INITIALLY DEFERRED
);
CREATE INDEX IF NOT EXISTS skills_is_active_idx ON skills (is_active);

CREATE TABLE IF NOT EXISTS journeys (
	id            bigserial PRIMARY KEY,
	year          int NOT NULL CHECK (year >= 1900),
	title         text NOT NULL,
	description   text NOT NULL,
	display_order int NOT NULL,
	created_by    bigint,
	updated_by    bigint,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT journeys_display_order_key
		UNIQUE (display_order) DEFERRABLE INITIALLY DEFERRED
);
CREATE INDEX IF NOT EXISTS journeys_year_idx ON journeys (year DESC);

CREATE TABLE IF NOT EXISTS highlights (
	id                bigserial PRIMARY KEY,
	title             text NOT NULL,
	description       text NOT NULL,
	short_description text NOT NULL DEFAULT '',
	image_url         text NOT NULL DEFAULT '',
	images            text[] NOT NULL DEFAULT '{}',
	category          text NOT NULL CHECK (category IN
		('ui-design', 'ux-research', 'mobile-app', 'web-design', 'branding',
		 'prototype', 'wireframe', 'user-testing', 'other')),
	tools             text[] NOT NULL DEFAULT '{}',
	project_url       text NOT NULL DEFAULT '',
	tags              text[] NOT NULL DEFAULT '{}',
	featured          boolean NOT NULL DEFAULT false,
	is_active         boolean NOT NULL DEFAULT true,
	display_order     int NOT NULL,
	completion_date   timestamptz,
	client_name       text NOT NULL DEFAULT '',
	views             int NOT NULL DEFAULT 0,
	likes             int NOT NULL DEFAULT 0,
	created_by        bigint,
	updated_by        bigint,
	created_at        timestamptz NOT NULL DEFAULT now(),
	updated_at        timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT highlights_display_order_key
		UNIQUE (display_order) DEFERRABLE INITIALLY DEFERRED
);
CREATE INDEX IF NOT EXISTS highlights_category_idx ON highlights (category);

CREATE TABLE IF NOT EXISTS resumes (
	id             bigserial PRIMARY KEY,
	title          text NOT NULL,
	original_name  text NOT NULL,
	file_data      bytea NOT NULL,
	content_type   text NOT NULL DEFAULT 'application/pdf',
	file_size      int NOT NULL CHECK (file_size >= 0),
	version        text NOT NULL UNIQUE,
	description    text NOT NULL DEFAULT '',
	is_active      boolean NOT NULL DEFAULT true,
	is_public      boolean NOT NULL DEFAULT true,
	download_count int NOT NULL DEFAULT 0,
	tags           text[] NOT NULL DEFAULT '{}',
	created_by     bigint,
	updated_by     bigint,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contact_messages (
	id         bigserial PRIMARY KEY,
	name       text NOT NULL,
	email      text NOT NULL,
	subject    text NOT NULL,
	message    text NOT NULL,
	status     text NOT NULL DEFAULT 'unread' CHECK (status IN ('unread', 'read', 'replied')),
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS contact_messages_status_idx ON contact_messages (status);
CREATE INDEX IF NOT EXISTS contact_messages_created_at_idx ON contact_messages (created_at DESC);
`

// EnsureSchema creates the tables on startup if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
