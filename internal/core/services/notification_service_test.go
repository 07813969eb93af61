package services_test

import (
	"context"
	"testing"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invitationFixture struct {
	*boardFixture
	notificationSvc ports.NotificationService
	board           *domain.Board
	invitation      *domain.Invitation
}

// newInvitationFixture sets up alice's board with a pending write
// invitation for bob.
func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "team board", nil)
	require.NoError(t, err)

	invitation, err := f.service.InviteCollaborator(context.Background(), "alice", board.ID, "bob", domain.AccessWrite)
	require.NoError(t, err)

	return &invitationFixture{
		boardFixture: f,
		notificationSvc: services.NewNotificationService(
			f.boards, f.collabs, f.notifications, f.invitations, zap.NewNop().Sugar(),
		),
		board:      board,
		invitation: invitation,
	}
}

func TestRespondToInvitation_AcceptGrantsAccess(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.notificationSvc.RespondToInvitation(context.Background(), "bob", f.invitation.NotificationID, true)
	require.NoError(t, err)

	assert.Equal(t, domain.AccessWrite, f.access.ResolveAccess(context.Background(), "bob", f.board.ID))

	inv, err := f.invitations.GetByNotification(context.Background(), f.invitation.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationAccepted, inv.Status)

	// The inviter is told about the outcome.
	replies, err := f.notifications.ListForUser(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, domain.NotificationInfo, replies[0].Type)
}

func TestRespondToInvitation_DeclineGrantsNothing(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.notificationSvc.RespondToInvitation(context.Background(), "bob", f.invitation.NotificationID, false)
	require.NoError(t, err)

	assert.Equal(t, domain.AccessNone, f.access.ResolveAccess(context.Background(), "bob", f.board.ID))

	inv, err := f.invitations.GetByNotification(context.Background(), f.invitation.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationDeclined, inv.Status)
}

func TestRespondToInvitation_OnlyInviteeMayRespond(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.notificationSvc.RespondToInvitation(context.Background(), "mallory", f.invitation.NotificationID, true)
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
	assert.Equal(t, domain.AccessNone, f.access.ResolveAccess(context.Background(), "mallory", f.board.ID))
}

func TestMarkRead_OwnershipChecked(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.notificationSvc.MarkRead(context.Background(), "mallory", f.invitation.NotificationID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	require.NoError(t, f.notificationSvc.MarkRead(context.Background(), "bob", f.invitation.NotificationID))

	list, err := f.notificationSvc.ListNotifications(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestListNotifications_EmptyForUnknownUser(t *testing.T) {
	f := newInvitationFixture(t)

	list, err := f.notificationSvc.ListNotifications(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}
