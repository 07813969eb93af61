package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/services"
	"boardsync/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBoardRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Board), args.Error(1)
}

func seedBoard(t *testing.T, boards *memory.MemoryBoardRepository, id domain.BoardID, owner domain.UserID) {
	t.Helper()
	err := boards.Create(context.Background(), &domain.Board{
		ID:        id,
		Title:     "board",
		Content:   []byte("{}"),
		CreatedBy: owner,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestResolveAccess_OwnerIsAlwaysAdmin(t *testing.T) {
	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	seedBoard(t, boards, "b1", "alice")

	// Even a conflicting collaborator record does not demote the owner.
	require.NoError(t, collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: "b1", UserID: "alice", Access: domain.AccessRead, CreatedAt: time.Now(),
	}))

	assert.Equal(t, domain.AccessAdmin, access.ResolveAccess(context.Background(), "alice", "b1"))
}

func TestResolveAccess_CollaboratorTier(t *testing.T) {
	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	seedBoard(t, boards, "b1", "alice")
	require.NoError(t, collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: "b1", UserID: "bob", Access: domain.AccessWrite, CreatedAt: time.Now(),
	}))

	assert.Equal(t, domain.AccessWrite, access.ResolveAccess(context.Background(), "bob", "b1"))
}

func TestResolveAccess_NoRecordResolvesToNone(t *testing.T) {
	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	seedBoard(t, boards, "b1", "alice")

	assert.Equal(t, domain.AccessNone, access.ResolveAccess(context.Background(), "mallory", "b1"))
}

func TestResolveAccess_UnknownBoardResolvesToNone(t *testing.T) {
	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	assert.Equal(t, domain.AccessNone, access.ResolveAccess(context.Background(), "alice", "nope"))
}

func TestResolveAccess_StoreFailureFailsClosed(t *testing.T) {
	boards := new(MockBoardRepository)
	boards.On("GetByID", mock.Anything, domain.BoardID("b1")).
		Return(nil, errors.New("connection refused"))

	collabs := memory.NewMemoryCollaboratorRepository()
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	assert.Equal(t, domain.AccessNone, access.ResolveAccess(context.Background(), "alice", "b1"))
	boards.AssertExpectations(t)
}

func TestResolveAccess_QueriedFreshPerCall(t *testing.T) {
	collabs := memory.NewMemoryCollaboratorRepository()
	boards := memory.NewMemoryBoardRepository(collabs)
	access := services.NewAccessService(boards, collabs, zap.NewNop().Sugar())

	seedBoard(t, boards, "b1", "alice")

	assert.Equal(t, domain.AccessNone, access.ResolveAccess(context.Background(), "bob", "b1"))

	require.NoError(t, collabs.Upsert(context.Background(), &domain.Collaborator{
		BoardID: "b1", UserID: "bob", Access: domain.AccessWrite, CreatedAt: time.Now(),
	}))
	assert.Equal(t, domain.AccessWrite, access.ResolveAccess(context.Background(), "bob", "b1"))

	// Revocation applies on the next query too.
	require.NoError(t, collabs.Delete(context.Background(), "b1", "bob"))
	assert.Equal(t, domain.AccessNone, access.ResolveAccess(context.Background(), "bob", "b1"))
}
