package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultSchema is used when no schema is configured.
const DefaultSchema = "catalog"

// schemaStatements create the catalog tables. %[1]s is the quoted schema.
//
// search_vector weights title as A and description as B; ListContent ranks
// with weights chosen so a title hit counts twice a description hit. The
// 'simple' text search configuration neither stems nor drops stopwords, so
// matching is by whole lower-cased words.
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS %[1]s`,

	`CREATE TABLE IF NOT EXISTS %[1]s.categories (
		id           UUID PRIMARY KEY,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		icon         TEXT NOT NULL DEFAULT '',
		color        TEXT NOT NULL DEFAULT '',
		time_created TIMESTAMPTZ NOT NULL,
		time_updated TIMESTAMPTZ,
		CONSTRAINT categories_name_key UNIQUE (name)
	)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.content (
		seq             BIGSERIAL NOT NULL UNIQUE,
		id              UUID PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		release_date    TEXT NOT NULL DEFAULT '',
		duration        TEXT NOT NULL DEFAULT '',
		rating          DOUBLE PRECISION,
		cover_image_url TEXT NOT NULL DEFAULT '',
		thumbnail_url   TEXT NOT NULL DEFAULT '',
		video_url       TEXT NOT NULL DEFAULT '',
		trailer_url     TEXT NOT NULL DEFAULT '',
		starring        TEXT[] NOT NULL DEFAULT '{}',
		director        TEXT NOT NULL DEFAULT '',
		language        TEXT NOT NULL DEFAULT '',
		country         TEXT NOT NULL DEFAULT '',
		tags            TEXT[] NOT NULL DEFAULT '{}',
		content_type    TEXT NOT NULL DEFAULT 'MOVIE',
		featured        BOOLEAN NOT NULL DEFAULT FALSE,
		trending        BOOLEAN NOT NULL DEFAULT FALSE,
		source_name     TEXT,
		source_id       BIGINT,
		category_ids    UUID[] NOT NULL DEFAULT '{}',
		time_created    TIMESTAMPTZ NOT NULL,
		time_updated    TIMESTAMPTZ NOT NULL,
		search_vector   TSVECTOR GENERATED ALWAYS AS (
			setweight(to_tsvector('simple', title), 'A') ||
			setweight(to_tsvector('simple', description), 'B')
		) STORED
	)`,

	`ALTER TABLE %[1]s.content ALTER COLUMN source_id TYPE BIGINT`,

	`CREATE INDEX IF NOT EXISTS content_search_idx ON %[1]s.content USING GIN (search_vector)`,
	`CREATE INDEX IF NOT EXISTS content_rating_idx ON %[1]s.content (rating)`,
	`CREATE INDEX IF NOT EXISTS content_release_date_idx ON %[1]s.content (release_date)`,
	`CREATE INDEX IF NOT EXISTS content_type_idx ON %[1]s.content (content_type)`,
	`CREATE INDEX IF NOT EXISTS content_source_idx ON %[1]s.content (source_name, source_id)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.watchlist_items (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL,
		content_id UUID NOT NULL,
		added_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT watchlist_items_user_content_key UNIQUE (user_id, content_id)
	)`,

	`CREATE TABLE IF NOT EXISTS %[1]s.watch_history_items (
		id                  UUID PRIMARY KEY,
		user_id             UUID NOT NULL,
		content_id          UUID NOT NULL,
		progress_percentage INTEGER NOT NULL DEFAULT 0,
		watched_at          TIMESTAMPTZ NOT NULL,
		last_watched_at     TIMESTAMPTZ NOT NULL,
		CONSTRAINT watch_history_items_user_content_key UNIQUE (user_id, content_id)
	)`,
	`CREATE INDEX IF NOT EXISTS watch_history_items_recent_idx ON %[1]s.watch_history_items (user_id, last_watched_at DESC)`,
}

// EnsureSchema creates the schema, tables and indexes if they do not exist.
// It is safe to run on every start.
func EnsureSchema(ctx context.Context, db DBTX, schema string) error {
	if strings.TrimSpace(schema) == "" {
		schema = DefaultSchema
	}
	quoted := pgx.Identifier{schema}.Sanitize()
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, fmt.Sprintf(stmt, quoted)); err != nil {
			return handlePostgresError("ensure schema", err)
		}
	}
	return nil
}

// ParsePoolConfig parses a connection URL and pins the search_path of every
// pooled connection to schema, so queries can use unqualified table names.
func ParsePoolConfig(databaseURL, schema string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if strings.TrimSpace(schema) == "" {
		schema = DefaultSchema
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return cfg, nil
}
