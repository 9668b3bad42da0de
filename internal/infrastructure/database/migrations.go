package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	pkgdb "happy-thoughts/pkg/database"
)

// schema is applied on startup. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL,
		username_key  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_users_username_key ON users (username_key)`,

	`CREATE TABLE IF NOT EXISTS thoughts (
		seq        BIGSERIAL,
		id         TEXT PRIMARY KEY,
		message    TEXT NOT NULL,
		hearts     INTEGER NOT NULL DEFAULT 0 CHECK (hearts >= 0),
		tags       TEXT[] NOT NULL DEFAULT '{}',
		owner_id   TEXT,
		likes      TEXT[] NOT NULL DEFAULT '{}',
		revision   INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_thoughts_created_at ON thoughts (created_at DESC, seq DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_thoughts_seq ON thoughts (seq)`,
	`CREATE INDEX IF NOT EXISTS idx_thoughts_owner_id ON thoughts (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_thoughts_tags ON thoughts USING GIN (tags)`,
}

// Migrate creates the tables and indexes in one transaction
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	err := pkgdb.WithTransaction(ctx, db.Pool, func(tx pgx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Info().Int("statements", len(schema)).Msg("[DATABASE] Schema is up to date")
	return nil
}
