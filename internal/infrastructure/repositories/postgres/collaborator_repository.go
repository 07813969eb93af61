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

type PostgresCollaboratorRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCollaboratorRepository(pool *pgxpool.Pool) ports.CollaboratorRepository {
	return &PostgresCollaboratorRepository{pool: pool}
}

func (r *PostgresCollaboratorRepository) Upsert(ctx context.Context, collab *domain.Collaborator) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO collaborators (whiteboard_id, user_id, access_level, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (whiteboard_id, user_id) DO UPDATE SET access_level = $3`,
		string(collab.BoardID), string(collab.UserID), string(collab.Access), collab.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert collaborator: %w", err)
	}
	return nil
}

func (r *PostgresCollaboratorRepository) Get(ctx context.Context, boardID domain.BoardID, userID domain.UserID) (*domain.Collaborator, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT whiteboard_id, user_id, access_level, created_at
		 FROM collaborators WHERE whiteboard_id = $1 AND user_id = $2`,
		string(boardID), string(userID),
	)
	return scanCollaborator(row)
}

func (r *PostgresCollaboratorRepository) ListForBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Collaborator, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT whiteboard_id, user_id, access_level, created_at
		 FROM collaborators WHERE whiteboard_id = $1`,
		string(boardID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	defer rows.Close()

	var result []*domain.Collaborator
	for rows.Next() {
		collab, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, collab)
	}
	return result, rows.Err()
}

func (r *PostgresCollaboratorRepository) Delete(ctx context.Context, boardID domain.BoardID, userID domain.UserID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM collaborators WHERE whiteboard_id = $1 AND user_id = $2`,
		string(boardID), string(userID),
	)
	if err != nil {
		return fmt.Errorf("failed to delete collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCollaboratorNotFound
	}
	return nil
}

func scanCollaborator(row rowScanner) (*domain.Collaborator, error) {
	var collab domain.Collaborator
	var boardID, userID, access string

	err := row.Scan(&boardID, &userID, &access, &collab.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCollaboratorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collaborator: %w", err)
	}

	collab.BoardID = domain.BoardID(boardID)
	collab.UserID = domain.UserID(userID)
	collab.Access = domain.AccessLevel(access)
	return &collab, nil
}
