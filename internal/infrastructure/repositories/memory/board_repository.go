package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
)

type MemoryBoardRepository struct {
	boards  map[domain.BoardID]*domain.Board
	collabs *MemoryCollaboratorRepository
	mu      sync.RWMutex
}

// NewMemoryBoardRepository builds an in-memory board store. The
// collaborator repository is consulted by ListForUser so that shared
// boards show up alongside owned ones.
func NewMemoryBoardRepository(collabs *MemoryCollaboratorRepository) *MemoryBoardRepository {
	return &MemoryBoardRepository{
		boards:  make(map[domain.BoardID]*domain.Board),
		collabs: collabs,
	}
}

var _ ports.BoardRepository = (*MemoryBoardRepository)(nil)

func (r *MemoryBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; exists {
		return fmt.Errorf("board already exists: %s", board.ID)
	}

	copied := *board
	r.boards[board.ID] = &copied
	return nil
}

func (r *MemoryBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, exists := r.boards[id]
	if !exists {
		return nil, domain.ErrBoardNotFound
	}

	copied := *board
	return &copied, nil
}

func (r *MemoryBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; !exists {
		return domain.ErrBoardNotFound
	}

	copied := *board
	r.boards[board.ID] = &copied
	return nil
}

func (r *MemoryBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[id]; !exists {
		return domain.ErrBoardNotFound
	}

	delete(r.boards, id)
	return nil
}

func (r *MemoryBoardRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	shared := make(map[domain.BoardID]bool)
	if r.collabs != nil {
		for _, c := range r.collabs.listForUser(userID) {
			shared[c.BoardID] = true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Board
	for _, board := range r.boards {
		if board.CreatedBy == userID || shared[board.ID] {
			copied := *board
			result = append(result, &copied)
		}
	}

	// Newest first, matching the listing order clients expect.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
