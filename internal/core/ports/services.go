package ports

import (
	"context"

	"boardsync/internal/core/domain"
)

// IdentityService resolves a raw credential into a stable identity.
// The token is decoded, not signature-verified; the trust boundary sits
// at the issuer that handed the token to the client.
type IdentityService interface {
	Resolve(credential string) (*domain.Identity, error)
}

// AccessService is the access oracle. Queried fresh per gated action so
// that permission changes made through the invitation flow take effect
// mid-session. Failures resolve to AccessNone.
type AccessService interface {
	ResolveAccess(ctx context.Context, userID domain.UserID, boardID domain.BoardID) domain.AccessLevel
}

type BoardService interface {
	CreateBoard(ctx context.Context, userID domain.UserID, title string, content []byte) (*domain.Board, error)
	GetBoard(ctx context.Context, userID domain.UserID, id domain.BoardID) (*domain.Board, error)
	UpdateBoard(ctx context.Context, userID domain.UserID, id domain.BoardID, title *string, content []byte) (*domain.Board, error)
	DeleteBoard(ctx context.Context, userID domain.UserID, id domain.BoardID) error
	ListBoards(ctx context.Context, userID domain.UserID) ([]*domain.Board, error)
	ListCollaborators(ctx context.Context, userID domain.UserID, id domain.BoardID) ([]*domain.Collaborator, error)
	InviteCollaborator(ctx context.Context, inviter domain.UserID, id domain.BoardID, invitee domain.UserID, access domain.AccessLevel) (*domain.Invitation, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID domain.UserID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID domain.UserID, id int64) error
	RespondToInvitation(ctx context.Context, userID domain.UserID, notificationID int64, accept bool) error
}
