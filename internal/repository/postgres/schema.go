package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		email VARCHAR(100) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL DEFAULT '',
		role VARCHAR(10) NOT NULL DEFAULT 'member',
		balance NUMERIC(10, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS boats (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
		rental_price NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (rental_price >= 0),
		image_url VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS boat_rentals (
		id SERIAL PRIMARY KEY,
		boat_id INTEGER NOT NULL REFERENCES boats(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		price NUMERIC(10, 2) NOT NULL DEFAULT 0,
		rental_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		return_time TIMESTAMPTZ,
		status VARCHAR(20) NOT NULL DEFAULT 'active'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS boat_rentals_one_active
		ON boat_rentals (boat_id) WHERE status = 'active'`,
	`CREATE TABLE IF NOT EXISTS activities (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location VARCHAR(200) NOT NULL DEFAULT '',
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0 CHECK (max_participants >= 0),
		creator_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (end_time > start_time)
	)`,
	`CREATE TABLE IF NOT EXISTS activity_signups (
		id SERIAL PRIMARY KEY,
		activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		signup_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		check_in BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (activity_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS finances (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		type VARCHAR(10) NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
		amount NUMERIC(10, 2) NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS finances_user_id ON finances (user_id)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id SERIAL PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		author_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS forum_tags (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		tag_id INTEGER REFERENCES forum_tags(id) ON DELETE SET NULL,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_tag_id ON posts (tag_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for i, stmt := range schema {
		logger.DatabaseCall("migrate", fmt.Sprintf("schema statement %d", i+1))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.DatabaseResult("migrate", 0, err)
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	logger.Info("Database schema ready", "statements", len(schema))
	return nil
}
