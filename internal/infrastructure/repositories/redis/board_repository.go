package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisBoardRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisBoardRepository(client *redis.Client) ports.BoardRepository {
	return &RedisBoardRepository{
		client: client,
		prefix: "boardsync:",
	}
}

func (r *RedisBoardRepository) boardKey(id domain.BoardID) string {
	return r.prefix + "board:" + string(id)
}

func (r *RedisBoardRepository) ownedKey(userID domain.UserID) string {
	return r.prefix + "user:" + string(userID) + ":owned"
}

func (r *RedisBoardRepository) sharedKey(userID domain.UserID) string {
	return r.prefix + "user:" + string(userID) + ":shared"
}

func (r *RedisBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set board in Redis: %w", err)
	}
	if err := r.client.SAdd(ctx, r.ownedKey(board.CreatedBy), string(board.ID)).Err(); err != nil {
		return fmt.Errorf("failed to index board for owner: %w", err)
	}
	return nil
}

func (r *RedisBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	data, err := r.client.Get(ctx, r.boardKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board from Redis: %w", err)
	}

	var board domain.Board
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	return &board, nil
}

func (r *RedisBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if _, err := r.GetByID(ctx, board.ID); err != nil {
		return err
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update board in Redis: %w", err)
	}
	return nil
}

func (r *RedisBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.boardKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete board from Redis: %w", err)
	}
	if err := r.client.SRem(ctx, r.ownedKey(board.CreatedBy), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to unindex board for owner: %w", err)
	}
	return nil
}

func (r *RedisBoardRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	ids, err := r.client.SUnion(ctx, r.ownedKey(userID), r.sharedKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list boards for user: %w", err)
	}

	var result []*domain.Board
	for _, id := range ids {
		board, err := r.GetByID(ctx, domain.BoardID(id))
		if err == domain.ErrBoardNotFound {
			// Index can lag a delete; skip the hole.
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, board)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
