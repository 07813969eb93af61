package postgres

import (
	"context"
	"errors"
	"fmt"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBoardRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBoardRepository(pool *pgxpool.Pool) ports.BoardRepository {
	return &PostgresBoardRepository{pool: pool}
}

func (r *PostgresBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO whiteboards (id, title, content, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(board.ID), board.Title, []byte(board.Content), string(board.CreatedBy),
		board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert whiteboard: %w", err)
	}
	return nil
}

func (r *PostgresBoardRepository) GetByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, content, created_by, created_at, updated_at
		 FROM whiteboards WHERE id = $1`,
		string(id),
	)
	return scanBoard(row)
}

func (r *PostgresBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE whiteboards SET title = $2, content = $3, updated_at = $4 WHERE id = $1`,
		string(board.ID), board.Title, []byte(board.Content), board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update whiteboard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

func (r *PostgresBoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM whiteboards WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete whiteboard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

func (r *PostgresBoardRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT w.id, w.title, w.content, w.created_by, w.created_at, w.updated_at
		 FROM whiteboards w
		 LEFT JOIN collaborators c ON w.id = c.whiteboard_id
		 WHERE w.created_by = $1 OR c.user_id = $1
		 ORDER BY w.created_at DESC`,
		string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list whiteboards: %w", err)
	}
	defer rows.Close()

	var result []*domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, board)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*domain.Board, error) {
	var board domain.Board
	var id, createdBy string
	var content []byte

	err := row.Scan(&id, &board.Title, &content, &createdBy, &board.CreatedAt, &board.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan whiteboard: %w", err)
	}

	board.ID = domain.BoardID(id)
	board.CreatedBy = domain.UserID(createdBy)
	board.Content = content
	return &board, nil
}
