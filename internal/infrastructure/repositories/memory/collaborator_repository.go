package memory

import (
	"context"
	"sync"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
)

type collabKey struct {
	board domain.BoardID
	user  domain.UserID
}

type MemoryCollaboratorRepository struct {
	collabs map[collabKey]*domain.Collaborator
	mu      sync.RWMutex
}

func NewMemoryCollaboratorRepository() *MemoryCollaboratorRepository {
	return &MemoryCollaboratorRepository{
		collabs: make(map[collabKey]*domain.Collaborator),
	}
}

var _ ports.CollaboratorRepository = (*MemoryCollaboratorRepository)(nil)

func (r *MemoryCollaboratorRepository) Upsert(ctx context.Context, collab *domain.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *collab
	r.collabs[collabKey{collab.BoardID, collab.UserID}] = &copied
	return nil
}

func (r *MemoryCollaboratorRepository) Get(ctx context.Context, boardID domain.BoardID, userID domain.UserID) (*domain.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collab, exists := r.collabs[collabKey{boardID, userID}]
	if !exists {
		return nil, domain.ErrCollaboratorNotFound
	}

	copied := *collab
	return &copied, nil
}

func (r *MemoryCollaboratorRepository) ListForBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Collaborator
	for key, collab := range r.collabs {
		if key.board == boardID {
			copied := *collab
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryCollaboratorRepository) Delete(ctx context.Context, boardID domain.BoardID, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := collabKey{boardID, userID}
	if _, exists := r.collabs[key]; !exists {
		return domain.ErrCollaboratorNotFound
	}

	delete(r.collabs, key)
	return nil
}

func (r *MemoryCollaboratorRepository) listForUser(userID domain.UserID) []*domain.Collaborator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Collaborator
	for key, collab := range r.collabs {
		if key.user == userID {
			copied := *collab
			result = append(result, &copied)
		}
	}
	return result
}
