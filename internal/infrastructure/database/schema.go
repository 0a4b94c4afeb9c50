package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
	id          SERIAL PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token_hash  TEXT NOT NULL UNIQUE,
	device_info TEXT,
	ip_address  TEXT,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profiles (
	user_id      TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	display_name TEXT,
	region       TEXT NOT NULL DEFAULT '',
	city         TEXT NOT NULL DEFAULT '',
	has_children TEXT NOT NULL DEFAULT '',
	vibe         TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS listings (
	id           BIGSERIAL PRIMARY KEY,
	owner_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role         TEXT NOT NULL CHECK (role IN ('host', 'seeker')),
	region       TEXT NOT NULL,
	city         TEXT NOT NULL,
	duration     TEXT NOT NULL DEFAULT '',
	budget       TEXT,
	has_children TEXT NOT NULL DEFAULT '',
	vibe         TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_listings_scope ON listings(region, city, role, created_at DESC);

CREATE TABLE IF NOT EXISTS conversations (
	id         BIGSERIAL PRIMARY KEY,
	listing_id BIGINT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
	user_low   TEXT NOT NULL,
	user_high  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CHECK (user_low < user_high),
	UNIQUE (listing_id, user_low, user_high)
);

CREATE INDEX IF NOT EXISTS idx_conversations_low ON conversations(user_low);
CREATE INDEX IF NOT EXISTS idx_conversations_high ON conversations(user_high);

CREATE TABLE IF NOT EXISTS messages (
	id              BIGSERIAL PRIMARY KEY,
	conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	sender_id       TEXT NOT NULL,
	body            TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
`

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
