package ports

import (
	"context"

	"boardsync/internal/core/domain"
)

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id domain.BoardID) error
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error)
}

type CollaboratorRepository interface {
	Upsert(ctx context.Context, collab *domain.Collaborator) error
	Get(ctx context.Context, boardID domain.BoardID, userID domain.UserID) (*domain.Collaborator, error)
	ListForBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Collaborator, error)
	Delete(ctx context.Context, boardID domain.BoardID, userID domain.UserID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type InvitationRepository interface {
	Upsert(ctx context.Context, inv *domain.Invitation) error
	GetByNotification(ctx context.Context, notificationID int64) (*domain.Invitation, error)
	UpdateStatus(ctx context.Context, notificationID int64, status domain.InvitationStatus) error
}
