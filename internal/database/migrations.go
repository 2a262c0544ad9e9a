package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'volunteer',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// A profile row exists only once the volunteer has saved one.
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		full_name VARCHAR(120) NOT NULL,
		address1 VARCHAR(255) NOT NULL,
		address2 VARCHAR(255),
		city VARCHAR(100) NOT NULL,
		state VARCHAR(2) NOT NULL,
		zip_code VARCHAR(10) NOT NULL,
		phone VARCHAR(25),
		skills TEXT[] NOT NULL DEFAULT '{}',
		availability TEXT[] NOT NULL DEFAULT '{}',
		preferences TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		required_skills TEXT[] NOT NULL DEFAULT '{}',
		urgency VARCHAR(20) NOT NULL,
		event_date DATE NOT NULL,
		volunteer_limit INTEGER CHECK (volunteer_limit IS NULL OR volunteer_limit >= 1),
		status VARCHAR(10) NOT NULL DEFAULT 'open',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS invites (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(10) NOT NULL DEFAULT 'pending',
		type VARCHAR(20) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// At most one pending or accepted invite per (volunteer, event); declined rows do not block.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invites_active ON invites(user_id, event_id) WHERE status <> 'declined'`,

	`CREATE TABLE IF NOT EXISTS volunteer_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		participation_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, event_id)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		recipient_id UUID REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		severity VARCHAR(20) NOT NULL DEFAULT 'info',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS activity_log (
		id BIGSERIAL PRIMARY KEY,
		kind VARCHAR(50) NOT NULL,
		meta JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
	`CREATE INDEX IF NOT EXISTS idx_invites_event_id ON invites(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invites_user_id ON invites(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_volunteer_history_user_id ON volunteer_history(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
