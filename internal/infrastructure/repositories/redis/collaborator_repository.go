package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisCollaboratorRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisCollaboratorRepository(client *redis.Client) ports.CollaboratorRepository {
	return &RedisCollaboratorRepository{
		client: client,
		prefix: "boardsync:",
	}
}

func (r *RedisCollaboratorRepository) collabKey(boardID domain.BoardID, userID domain.UserID) string {
	return r.prefix + "collab:" + string(boardID) + ":" + string(userID)
}

func (r *RedisCollaboratorRepository) boardSetKey(boardID domain.BoardID) string {
	return r.prefix + "collab:" + string(boardID) + ":members"
}

func (r *RedisCollaboratorRepository) sharedKey(userID domain.UserID) string {
	return r.prefix + "user:" + string(userID) + ":shared"
}

func (r *RedisCollaboratorRepository) Upsert(ctx context.Context, collab *domain.Collaborator) error {
	data, err := json.Marshal(collab)
	if err != nil {
		return fmt.Errorf("failed to marshal collaborator: %w", err)
	}

	if err := r.client.Set(ctx, r.collabKey(collab.BoardID, collab.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set collaborator in Redis: %w", err)
	}
	if err := r.client.SAdd(ctx, r.boardSetKey(collab.BoardID), string(collab.UserID)).Err(); err != nil {
		return fmt.Errorf("failed to index collaborator for board: %w", err)
	}
	if err := r.client.SAdd(ctx, r.sharedKey(collab.UserID), string(collab.BoardID)).Err(); err != nil {
		return fmt.Errorf("failed to index shared board for user: %w", err)
	}
	return nil
}

func (r *RedisCollaboratorRepository) Get(ctx context.Context, boardID domain.BoardID, userID domain.UserID) (*domain.Collaborator, error) {
	data, err := r.client.Get(ctx, r.collabKey(boardID, userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrCollaboratorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator from Redis: %w", err)
	}

	var collab domain.Collaborator
	if err := json.Unmarshal([]byte(data), &collab); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collaborator: %w", err)
	}
	return &collab, nil
}

func (r *RedisCollaboratorRepository) ListForBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Collaborator, error) {
	userIDs, err := r.client.SMembers(ctx, r.boardSetKey(boardID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}

	var result []*domain.Collaborator
	for _, userID := range userIDs {
		collab, err := r.Get(ctx, boardID, domain.UserID(userID))
		if err == domain.ErrCollaboratorNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, collab)
	}
	return result, nil
}

func (r *RedisCollaboratorRepository) Delete(ctx context.Context, boardID domain.BoardID, userID domain.UserID) error {
	deleted, err := r.client.Del(ctx, r.collabKey(boardID, userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete collaborator from Redis: %w", err)
	}
	if deleted == 0 {
		return domain.ErrCollaboratorNotFound
	}

	if err := r.client.SRem(ctx, r.boardSetKey(boardID), string(userID)).Err(); err != nil {
		return fmt.Errorf("failed to unindex collaborator for board: %w", err)
	}
	if err := r.client.SRem(ctx, r.sharedKey(userID), string(boardID)).Err(); err != nil {
		return fmt.Errorf("failed to unindex shared board for user: %w", err)
	}
	return nil
}
