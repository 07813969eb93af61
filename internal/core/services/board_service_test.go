package services_test

import (
	"context"
	"testing"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/internal/core/services"
	"boardsync/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type boardFixture struct {
	boards        *memory.MemoryBoardRepository
	collabs       *memory.MemoryCollaboratorRepository
	notifications *memory.MemoryNotificationRepository
	invitations   *memory.MemoryInvitationRepository
	access        ports.AccessService
	service       ports.BoardService
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	log := zap.NewNop().Sugar()

	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	notifications := memory.NewMemoryNotificationRepository()
	invitations := memory.NewMemoryInvitationRepository()
	access := services.NewAccessService(boards, collabs, log)

	return &boardFixture{
		boards:        boards,
		collabs:       collabs,
		notifications: notifications,
		invitations:   invitations,
		access:        access,
		service:       services.NewBoardService(boards, collabs, notifications, invitations, access, log),
	}
}

func TestCreateBoard_DefaultsEmptyContent(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "my board", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, board.ID)
	assert.Equal(t, domain.UserID("alice"), board.CreatedBy)
	assert.JSONEq(t, "{}", string(board.Content))

	// The creator resolves to admin on their own board.
	assert.Equal(t, domain.AccessAdmin, f.access.ResolveAccess(context.Background(), "alice", board.ID))
}

func TestGetBoard_HiddenWithoutAccess(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "secret plans", nil)
	require.NoError(t, err)

	_, err = f.service.GetBoard(context.Background(), "mallory", board.ID)
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)

	got, err := f.service.GetBoard(context.Background(), "alice", board.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, got.ID)
}

func TestUpdateBoard_RequiresWriteTier(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "draft", nil)
	require.NoError(t, err)

	title := "renamed"
	_, err = f.service.UpdateBoard(context.Background(), "bob", board.ID, &title, nil)
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)

	require.NoError(t, f.collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: board.ID, UserID: "bob", Access: domain.AccessRead, CreatedAt: time.Now(),
	}))
	_, err = f.service.UpdateBoard(context.Background(), "bob", board.ID, &title, nil)
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)

	require.NoError(t, f.collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: board.ID, UserID: "bob", Access: domain.AccessWrite, CreatedAt: time.Now(),
	}))
	updated, err := f.service.UpdateBoard(context.Background(), "bob", board.ID, &title, []byte(`{"lines":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.JSONEq(t, `{"lines":[]}`, string(updated.Content))
}

func TestDeleteBoard_OwnerOnly(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "doomed", nil)
	require.NoError(t, err)

	require.NoError(t, f.collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: board.ID, UserID: "bob", Access: domain.AccessAdmin, CreatedAt: time.Now(),
	}))

	// Even an admin-tier collaborator may not delete.
	err = f.service.DeleteBoard(context.Background(), "bob", board.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.service.DeleteBoard(context.Background(), "alice", board.ID))

	_, err = f.boards.GetByID(context.Background(), board.ID)
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)
}

func TestListBoards_IncludesSharedBoards(t *testing.T) {
	f := newBoardFixture(t)

	own, err := f.service.CreateBoard(context.Background(), "alice", "mine", nil)
	require.NoError(t, err)
	shared, err := f.service.CreateBoard(context.Background(), "bob", "bobs", nil)
	require.NoError(t, err)

	require.NoError(t, f.collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: shared.ID, UserID: "alice", Access: domain.AccessRead, CreatedAt: time.Now(),
	}))

	boards, err := f.service.ListBoards(context.Background(), "alice")
	require.NoError(t, err)
	ids := make([]domain.BoardID, 0, len(boards))
	for _, b := range boards {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []domain.BoardID{own.ID, shared.ID}, ids)
}

func TestInviteCollaborator_CreatesNotificationAndPendingInvitation(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "team board", nil)
	require.NoError(t, err)

	invitation, err := f.service.InviteCollaborator(context.Background(), "alice", board.ID, "bob", domain.AccessWrite)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationPending, invitation.Status)
	assert.Equal(t, domain.AccessWrite, invitation.Access)
	assert.NotZero(t, invitation.NotificationID)

	// The invitee got a notification carrying the invitation.
	list, err := f.notifications.ListForUser(context.Background(), "bob", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationInvitation, list[0].Type)

	// Access is not granted until acceptance.
	assert.Equal(t, domain.AccessNone, f.access.ResolveAccess(context.Background(), "bob", board.ID))
}

func TestInviteCollaborator_Validation(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.service.CreateBoard(context.Background(), "alice", "team board", nil)
	require.NoError(t, err)

	_, err = f.service.InviteCollaborator(context.Background(), "alice", board.ID, "alice", domain.AccessRead)
	assert.Error(t, err)

	_, err = f.service.InviteCollaborator(context.Background(), "alice", board.ID, "bob", domain.AccessLevel("superuser"))
	assert.Error(t, err)

	// Only the owner invites.
	_, err = f.service.InviteCollaborator(context.Background(), "bob", board.ID, "carol", domain.AccessRead)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Empty access defaults to read.
	invitation, err := f.service.InviteCollaborator(context.Background(), "alice", board.ID, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, domain.AccessRead, invitation.Access)
}
