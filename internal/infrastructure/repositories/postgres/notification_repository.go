package postgres

import (
	"context"
	"errors"
	"fmt"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) ports.NotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	data := n.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, type, message, data, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		string(n.UserID), string(n.Type), n.Message, []byte(data), n.Read, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, type, message, data, read, created_at
		 FROM notifications WHERE id = $1`,
		id,
	)
	return scanNotification(row)
}

func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, type, message, data, read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		string(userID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var result []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var userID, ntype string
	var data []byte

	err := row.Scan(&n.ID, &userID, &ntype, &n.Message, &data, &n.Read, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.UserID = domain.UserID(userID)
	n.Type = domain.NotificationType(ntype)
	n.Data = data
	return &n, nil
}
