package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS whiteboards (
		id TEXT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_by VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS collaborators (
		id BIGSERIAL PRIMARY KEY,
		whiteboard_id TEXT REFERENCES whiteboards(id) ON DELETE CASCADE,
		user_id VARCHAR(255) NOT NULL,
		access_level VARCHAR(50) DEFAULT 'read',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(whiteboard_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		type VARCHAR(50) NOT NULL,
		message TEXT NOT NULL,
		data JSONB DEFAULT '{}'::jsonb,
		read BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS invitations (
		id BIGSERIAL PRIMARY KEY,
		whiteboard_id TEXT REFERENCES whiteboards(id) ON DELETE CASCADE,
		inviter_id VARCHAR(255) NOT NULL,
		invitee_id VARCHAR(255) NOT NULL,
		access_level VARCHAR(50) DEFAULT 'read',
		status VARCHAR(50) DEFAULT 'pending',
		notification_id BIGINT REFERENCES notifications(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(whiteboard_id, invitee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_collaborators_user ON collaborators(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.SugaredLogger) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	if logger != nil {
		logger.Info("database schema up to date")
	}
	return nil
}
