package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type boardService struct {
	boards        ports.BoardRepository
	collabs       ports.CollaboratorRepository
	notifications ports.NotificationRepository
	invitations   ports.InvitationRepository
	access        ports.AccessService
	logger        *zap.SugaredLogger
}

func NewBoardService(
	boards ports.BoardRepository,
	collabs ports.CollaboratorRepository,
	notifications ports.NotificationRepository,
	invitations ports.InvitationRepository,
	access ports.AccessService,
	logger *zap.SugaredLogger,
) ports.BoardService {
	return &boardService{
		boards:        boards,
		collabs:       collabs,
		notifications: notifications,
		invitations:   invitations,
		access:        access,
		logger:        logger,
	}
}

func (s *boardService) CreateBoard(ctx context.Context, userID domain.UserID, title string, content []byte) (*domain.Board, error) {
	if len(content) == 0 {
		content = []byte("{}")
	}
	board := &domain.Board{
		ID:        domain.BoardID(uuid.New().String()),
		Title:     title,
		Content:   content,
		CreatedBy: userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.logger.Infow("board created", "board_id", board.ID, "created_by", userID)
	return board, nil
}

// GetBoard returns the board if the caller holds any tier on it. A board
// the caller cannot see reads the same as one that does not exist.
func (s *boardService) GetBoard(ctx context.Context, userID domain.UserID, id domain.BoardID) (*domain.Board, error) {
	if !s.access.ResolveAccess(ctx, userID, id).AtLeast(domain.AccessRead) {
		return nil, domain.ErrBoardNotFound
	}
	return s.boards.GetByID(ctx, id)
}

func (s *boardService) UpdateBoard(ctx context.Context, userID domain.UserID, id domain.BoardID, title *string, content []byte) (*domain.Board, error) {
	if !s.access.ResolveAccess(ctx, userID, id).AtLeast(domain.AccessWrite) {
		return nil, domain.ErrBoardNotFound
	}

	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		board.Title = *title
	}
	if content != nil {
		board.Content = content
	}
	board.UpdatedAt = time.Now()

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return board, nil
}

func (s *boardService) DeleteBoard(ctx context.Context, userID domain.UserID, id domain.BoardID) error {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Only the owner may delete, collaborators of any tier may not.
	if board.CreatedBy != userID {
		return domain.ErrForbidden
	}

	if err := s.boards.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.logger.Infow("board deleted", "board_id", id, "deleted_by", userID)
	return nil
}

func (s *boardService) ListBoards(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	return s.boards.ListForUser(ctx, userID)
}

func (s *boardService) ListCollaborators(ctx context.Context, userID domain.UserID, id domain.BoardID) ([]*domain.Collaborator, error) {
	if !s.access.ResolveAccess(ctx, userID, id).AtLeast(domain.AccessRead) {
		return nil, domain.ErrBoardNotFound
	}
	return s.collabs.ListForBoard(ctx, id)
}

// InviteCollaborator creates the invitation plus the notification that
// carries it to the invitee. Access is granted only when the invitee
// accepts, not at invite time.
func (s *boardService) InviteCollaborator(ctx context.Context, inviter domain.UserID, id domain.BoardID, invitee domain.UserID, access domain.AccessLevel) (*domain.Invitation, error) {
	if invitee == inviter {
		return nil, fmt.Errorf("cannot invite yourself")
	}
	if access == "" {
		access = domain.AccessRead
	}
	if !access.Valid() || access == domain.AccessNone {
		return nil, fmt.Errorf("invalid access level %q", access)
	}

	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.CreatedBy != inviter {
		return nil, domain.ErrForbidden
	}

	data, err := json.Marshal(map[string]interface{}{
		"boardId":     board.ID,
		"inviterId":   inviter,
		"accessLevel": access,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}

	notification := &domain.Notification{
		UserID:    invitee,
		Type:      domain.NotificationInvitation,
		Message:   fmt.Sprintf("%s invited you to collaborate on whiteboard %q", inviter, board.Title),
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	invitation := &domain.Invitation{
		BoardID:        id,
		InviterID:      inviter,
		InviteeID:      invitee,
		Access:         access,
		Status:         domain.InvitationPending,
		NotificationID: notification.ID,
		CreatedAt:      time.Now(),
	}
	if err := s.invitations.Upsert(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.logger.Infow("collaborator invited",
		"board_id", id,
		"inviter", inviter,
		"invitee", invitee,
		"access", access,
	)
	return invitation, nil
}
