package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"go.uber.org/zap"
)

const notificationListLimit = 50

type notificationService struct {
	boards        ports.BoardRepository
	collabs       ports.CollaboratorRepository
	notifications ports.NotificationRepository
	invitations   ports.InvitationRepository
	logger        *zap.SugaredLogger
}

func NewNotificationService(
	boards ports.BoardRepository,
	collabs ports.CollaboratorRepository,
	notifications ports.NotificationRepository,
	invitations ports.InvitationRepository,
	logger *zap.SugaredLogger,
) ports.NotificationService {
	return &notificationService{
		boards:        boards,
		collabs:       collabs,
		notifications: notifications,
		invitations:   invitations,
		logger:        logger,
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID domain.UserID) ([]*domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, notificationListLimit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID domain.UserID, id int64) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	return s.notifications.MarkRead(ctx, id)
}

// RespondToInvitation resolves a pending invitation. Accepting upserts the
// collaborator record, which is when the invitee's access tier actually
// changes; the real-time layer picks that up on its next oracle query.
func (s *notificationService) RespondToInvitation(ctx context.Context, userID domain.UserID, notificationID int64, accept bool) error {
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return domain.ErrInvitationNotFound
	}

	invitation, err := s.invitations.GetByNotification(ctx, notificationID)
	if err != nil {
		return err
	}

	board, err := s.boards.GetByID(ctx, invitation.BoardID)
	if err != nil {
		return err
	}

	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return err
	}

	status := domain.InvitationDeclined
	verb := "declined"
	if accept {
		status = domain.InvitationAccepted
		verb = "accepted"

		collab := &domain.Collaborator{
			BoardID:   invitation.BoardID,
			UserID:    userID,
			Access:    invitation.Access,
			CreatedAt: time.Now(),
		}
		if err := s.collabs.Upsert(ctx, collab); err != nil {
			return fmt.Errorf("failed to add collaborator: %w", err)
		}
	}

	if err := s.invitations.UpdateStatus(ctx, notificationID, status); err != nil {
		return err
	}

	data, err := json.Marshal(map[string]interface{}{"boardId": invitation.BoardID})
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}
	reply := &domain.Notification{
		UserID:    invitation.InviterID,
		Type:      domain.NotificationInfo,
		Message:   fmt.Sprintf("%s %s your invitation to collaborate on %q", userID, verb, board.Title),
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(ctx, reply); err != nil {
		return fmt.Errorf("failed to notify inviter: %w", err)
	}

	s.logger.Infow("invitation resolved",
		"board_id", invitation.BoardID,
		"invitee", userID,
		"status", status,
	)
	return nil
}
