package memory

import (
	"context"
	"sort"
	"sync"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
)

type MemoryNotificationRepository struct {
	notifications map[int64]*domain.Notification
	nextID        int64
	mu            sync.RWMutex
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[int64]*domain.Notification),
		nextID:        1,
	}
}

var _ ports.NotificationRepository = (*MemoryNotificationRepository)(nil)

func (r *MemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = r.nextID
	r.nextID++

	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *MemoryNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notifications[id]
	if !exists {
		return nil, domain.ErrNotificationNotFound
	}

	copied := *n
	return &copied, nil
}

func (r *MemoryNotificationRepository) ListForUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notifications[id]
	if !exists {
		return domain.ErrNotificationNotFound
	}

	n.Read = true
	return nil
}
