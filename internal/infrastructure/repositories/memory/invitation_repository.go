package memory

import (
	"context"
	"sync"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
)

type invitationKey struct {
	board   domain.BoardID
	invitee domain.UserID
}

type MemoryInvitationRepository struct {
	invitations map[invitationKey]*domain.Invitation
	nextID      int64
	mu          sync.RWMutex
}

func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{
		invitations: make(map[invitationKey]*domain.Invitation),
		nextID:      1,
	}
}

var _ ports.InvitationRepository = (*MemoryInvitationRepository)(nil)

// Upsert keys on (board, invitee): re-inviting the same user refreshes
// the pending invitation instead of stacking a second one.
func (r *MemoryInvitationRepository) Upsert(ctx context.Context, inv *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := invitationKey{inv.BoardID, inv.InviteeID}
	if existing, ok := r.invitations[key]; ok {
		inv.ID = existing.ID
	} else {
		inv.ID = r.nextID
		r.nextID++
	}

	copied := *inv
	r.invitations[key] = &copied
	return nil
}

func (r *MemoryInvitationRepository) GetByNotification(ctx context.Context, notificationID int64) (*domain.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inv := range r.invitations {
		if inv.NotificationID == notificationID {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *MemoryInvitationRepository) UpdateStatus(ctx context.Context, notificationID int64, status domain.InvitationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.invitations {
		if inv.NotificationID == notificationID {
			inv.Status = status
			return nil
		}
	}
	return domain.ErrInvitationNotFound
}
