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

type PostgresInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresInvitationRepository(pool *pgxpool.Pool) ports.InvitationRepository {
	return &PostgresInvitationRepository{pool: pool}
}

func (r *PostgresInvitationRepository) Upsert(ctx context.Context, inv *domain.Invitation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO invitations (whiteboard_id, inviter_id, invitee_id, access_level, status, notification_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (whiteboard_id, invitee_id)
		 DO UPDATE SET access_level = $4, status = 'pending', notification_id = $6
		 RETURNING id`,
		string(inv.BoardID), string(inv.InviterID), string(inv.InviteeID),
		string(inv.Access), string(inv.Status), inv.NotificationID, inv.CreatedAt,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert invitation: %w", err)
	}
	return nil
}

func (r *PostgresInvitationRepository) GetByNotification(ctx context.Context, notificationID int64) (*domain.Invitation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, whiteboard_id, inviter_id, invitee_id, access_level, status, notification_id, created_at
		 FROM invitations WHERE notification_id = $1`,
		notificationID,
	)

	var inv domain.Invitation
	var boardID, inviter, invitee, access, status string

	err := row.Scan(&inv.ID, &boardID, &inviter, &invitee, &access, &status, &inv.NotificationID, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}

	inv.BoardID = domain.BoardID(boardID)
	inv.InviterID = domain.UserID(inviter)
	inv.InviteeID = domain.UserID(invitee)
	inv.Access = domain.AccessLevel(access)
	inv.Status = domain.InvitationStatus(status)
	return &inv, nil
}

func (r *PostgresInvitationRepository) UpdateStatus(ctx context.Context, notificationID int64, status domain.InvitationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = $2 WHERE notification_id = $1`,
		notificationID, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}
